package build

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/content"
	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/feeds"
	"github.com/olimci/hyoushi/pkg/imaging"
	"github.com/olimci/hyoushi/pkg/manifest"
	"github.com/olimci/hyoushi/pkg/mf2"
	"github.com/olimci/hyoushi/pkg/render"
	"github.com/olimci/hyoushi/pkg/utils/fileutils"
	"github.com/olimci/hyoushi/pkg/utils/set"
	"github.com/olimci/hyoushi/pkg/view"
	"golang.org/x/sync/errgroup"
)

var ErrDuplicateSlug = errors.New("duplicate slug")

const (
	// internal keys
	ConfigK  = manifest.K[*config.Config]("config")
	OptionsK = manifest.K[*Options]("options")

	EntriesK = manifest.K[[]*content.Entry]("entries")
	SiteK    = manifest.K[*render.Site]("site")
)

const (
	StepIDStatic   = "static"
	StepIDLoad     = "content:load"
	StepIDImages   = "content:images"
	StepIDEntries  = "pages:entries"
	StepIDNotFound = "pages:notfound"
	StepIDRSS      = "feeds:rss"
	StepIDSitemap  = "feeds:sitemap"
)

// StepStatic copies the static directory into the root of dist.
func StepStatic() Step {
	return StepFunc(StepIDStatic, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)
		m := NewMinifier(cfg.Build.Minify)

		files, err := fileutils.WalkFiles(cfg.Build.Static)
		if err != nil {
			return err
		}

		for _, rel := range files.Values() {
			claim := manifest.Claim{
				Owner:  StepIDStatic,
				Source: filepath.Join(cfg.Build.Static, filepath.FromSlash(rel)),
				Target: rel,
			}
			sc.Manifest.Emit(manifest.StaticArtefact(claim).Post(m))
		}

		sc.Debugf(cfg.Build.Static, "copied %d static file(s)", files.Len())
		return nil
	})
}

// StepLoad loads every entry under the content directory.
func StepLoad() Step {
	return StepFunc(StepIDLoad, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)

		loader := content.NewLoader(cfg.Build.Goldmark.Build(),
			content.WithIgnore(cfg.Build.Ignore...),
			content.WithDrafts(sc.Options.Dev),
		)

		entries, err := loader.Load(sc.Ctx, cfg.Build.Content)
		if err != nil {
			if entries == nil && !isFileErrors(err) {
				return err
			}
			if err := reportFileErrors(sc, err); err != nil {
				return err
			}
		}

		seen := make(map[string]string, len(entries))
		kept := entries[:0]
		for _, e := range entries {
			slug := e.URLPath()
			if first, ok := seen[slug]; ok {
				if err := sc.Error(e.Source, fmt.Sprintf("slug %s is already used by %s", slug, first), ErrDuplicateSlug); err != nil {
					return err
				}
				continue
			}
			seen[slug] = e.Source
			kept = append(kept, e)
		}

		manifest.SetAs(sc.Manifest, EntriesK, kept)
		sc.Infof(cfg.Build.Content, "loaded %d entr%s", len(kept), plural(len(kept), "y", "ies"))
		return nil
	})
}

func isFileErrors(err error) bool {
	var fe *content.FileError
	return errors.As(err, &fe)
}

func reportFileErrors(sc *StepContext, err error) error {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var failed []error
	for _, err := range errs {
		source := ""
		var fe *content.FileError
		if errors.As(err, &fe) {
			source, err = fe.Source, fe.Err
		}
		if err := sc.Error(source, "failed to load entry", err); err != nil {
			failed = append(failed, err)
		}
	}
	return errors.Join(failed...)
}

// StepImages resizes header images and the author avatar, then publishes the
// site record pages are rendered against.
func StepImages() Step {
	return StepFunc(StepIDImages, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)
		entries := manifest.GetAs(sc.Manifest, EntriesK)

		proc := imaging.New(cfg.Build.Images.Widths,
			imaging.WithQuality(cfg.Build.Images.Quality),
			imaging.WithBasePath(cfg.Site.BasePath),
		)

		emitted := set.New[string]()
		emit := func(source string, res *imaging.Result) {
			for _, v := range res.Variants {
				if emitted.HasAdd(v.Target) {
					continue
				}
				claim := manifest.Claim{Owner: StepIDImages, Source: source, Target: v.Target}
				sc.Manifest.Emit(manifest.BytesArtefact(claim, v.Data))
			}
		}

		results := make([]*imaging.Result, len(entries))
		var g errgroup.Group
		if sc.Options.maxWorkers > 0 {
			g.SetLimit(sc.Options.maxWorkers)
		}
		for i, e := range entries {
			if e.HeaderImageSource == "" || isRemote(e.HeaderImageSource) {
				continue
			}
			g.Go(func() error {
				res, err := proc.ProcessFile(e.HeaderImageSource, imaging.Header)
				if err != nil {
					return sc.Error(e.Source, "failed to process header image", err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, e := range entries {
			switch {
			case results[i] != nil:
				img := results[i].Image
				e.Record.Frontmatter.HeaderImage = &img
				emit(e.HeaderImageSource, results[i])
			case isRemote(e.HeaderImageSource):
				e.Record.Frontmatter.HeaderImage = imaging.Remote(e.HeaderImageSource)
			}
		}

		site := render.SiteFromConfig(cfg)
		site.Picker = sc.Options.picker

		if avatar := cfg.Site.Author.Avatar; avatar != "" {
			if isRemote(avatar) {
				site.Avatar = imaging.Remote(avatar)
			} else if res, err := proc.ProcessFile(avatar, imaging.Avatar); err != nil {
				if err := sc.Error(avatar, "failed to process avatar", err); err != nil {
					return err
				}
			} else {
				img := res.Image
				site.Avatar = &img
				emit(avatar, res)
			}
		}

		manifest.SetAs(sc.Manifest, SiteK, &site)
		sc.Debugf("", "%d image variant(s)", emitted.Len())
		return nil
	}, StepIDLoad)
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// StepEntries renders a page per entry.
func StepEntries() Step {
	return StepFunc(StepIDEntries, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)
		entries := manifest.GetAs(sc.Manifest, EntriesK)
		site := manifest.GetAs(sc.Manifest, SiteK)

		m := NewMinifier(cfg.Build.Minify)

		var audit manifest.PostProcessor
		if cfg.Audit.Enable {
			audit = mf2.PostProcessor(auditReporter(sc), sc.Options.Strict)
		}

		for _, e := range entries {
			claim := manifest.NewPageClaim(StepIDEntries, e.Source, e.URLPath())
			a := manifest.Artefact{
				Claim: claim,
				Builder: func(w io.Writer) error {
					if err := render.Entry(w, *site, e.Record); err != nil {
						return fmt.Errorf("%s: %w", e.Source, err)
					}
					return nil
				},
			}

			// audit sees the page before minification
			sc.Manifest.Emit(a.Post(audit).Post(m))
		}

		return nil
	}, StepIDImages)
}

func auditReporter(sc *StepContext) mf2.Reporter {
	level := events.Error
	if sc.Options.Lenient() {
		level = events.Warn
	}

	return func(target string, problems []mf2.Problem) {
		for _, p := range problems {
			sc.report(level, target, p.String(), mf2.ErrMissingMarkup)
		}
	}
}

// StepNotFound renders the not-found page to 404.html.
func StepNotFound() Step {
	return StepFunc(StepIDNotFound, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)
		site := manifest.GetAs(sc.Manifest, SiteK)

		a := manifest.Artefact{
			Claim: manifest.NewPageClaim(StepIDNotFound, "", view.NotFoundPath),
			Builder: func(w io.Writer) error {
				return render.NotFound(w, *site)
			},
		}

		sc.Manifest.Emit(a.Post(NewMinifier(cfg.Build.Minify)))
		return nil
	}, StepIDImages)
}

// StepRSS writes the RSS feed of the newest entries.
func StepRSS() Step {
	return StepFunc(StepIDRSS, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)
		entries := manifest.GetAs(sc.Manifest, EntriesK)
		site := manifest.GetAs(sc.Manifest, SiteK)

		feed := feeds.BuildRSS(*site, entries, cfg.Feeds.RSS.Limit, sc.Options.now)
		a := manifest.Artefact{
			Claim: manifest.NewInternalClaim(StepIDRSS, feedTarget(cfg.Feeds.RSS.Path)),
			Builder: func(w io.Writer) error {
				return feeds.Encode(w, feed)
			},
		}

		sc.Manifest.Emit(a.Post(NewMinifier(cfg.Build.Minify)))
		sc.Debugf(a.Claim.Target, "%d item(s)", len(feed.Channel.Items))
		return nil
	}, StepIDImages)
}

// StepSitemap writes the sitemap.
func StepSitemap() Step {
	return StepFunc(StepIDSitemap, func(sc *StepContext) error {
		cfg := manifest.GetAs(sc.Manifest, ConfigK)
		entries := manifest.GetAs(sc.Manifest, EntriesK)
		site := manifest.GetAs(sc.Manifest, SiteK)

		sitemap := feeds.BuildSitemap(*site, entries)
		a := manifest.Artefact{
			Claim: manifest.NewInternalClaim(StepIDSitemap, feedTarget(cfg.Feeds.Sitemap.Path)),
			Builder: func(w io.Writer) error {
				return feeds.Encode(w, sitemap)
			},
		}

		sc.Manifest.Emit(a.Post(NewMinifier(cfg.Build.Minify)))
		return nil
	}, StepIDImages)
}

func feedTarget(p string) string {
	return strings.TrimPrefix(p, "/")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
