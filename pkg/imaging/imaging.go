// Package imaging produces resized JPEG variants of source images and the
// responsive descriptors pages use to reference them.
package imaging

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/olimci/hyoushi/pkg/content"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Dir is the site-relative directory variants are written to.
const Dir = "static/images"

const defaultQuality = 85

var ErrEmptyImage = errors.New("image has no pixels")

// Use describes where an image is shown.
type Use struct {
	MaxWidth int
	Square   bool
}

var (
	Header = Use{MaxWidth: 1140}
	Avatar = Use{MaxWidth: 400, Square: true}
)

func (u Use) key() string {
	return strconv.Itoa(u.MaxWidth) + "/" + strconv.FormatBool(u.Square)
}

// Variant is one encoded size of an image.
type Variant struct {
	Width  int
	Height int
	Target string // site-relative output path
	Data   []byte
}

type Result struct {
	Image    content.Image
	Variants []Variant
}

// Processor resizes images. Results are cached by content and use, so
// repeated builds of an unchanged site do not re-encode anything.
type Processor struct {
	widths   []int
	quality  int
	basePath string

	cacheMu sync.Mutex
	cache   map[string]*Result
}

type Option func(*Processor)

func WithQuality(q int) Option {
	return func(p *Processor) {
		if q > 0 && q <= 100 {
			p.quality = q
		}
	}
}

// WithBasePath prefixes the URLs of generated variants.
func WithBasePath(base string) Option {
	return func(p *Processor) {
		p.basePath = base
	}
}

func New(widths []int, opts ...Option) *Processor {
	ws := slices.Clone(widths)
	slices.Sort(ws)

	p := &Processor{
		widths:   slices.Compact(ws),
		quality:  defaultQuality,
		basePath: "/",
		cache:    make(map[string]*Result),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) ProcessFile(name string, use Use) (*Result, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.Process(file, use)
}

// Process decodes an image and encodes its variants for use.
func (p *Processor) Process(r io.Reader, use Use) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(append([]byte(use.key()+"\x00"), raw...))
	hash := hex.EncodeToString(sum[:])[:12]

	p.cacheMu.Lock()
	cached, ok := p.cache[hash]
	p.cacheMu.Unlock()
	if ok {
		return cached, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	if use.Square {
		img = cropSquare(img)
	}

	res, err := p.variants(img, hash, use)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[hash] = res
	p.cacheMu.Unlock()

	return res, nil
}

func (p *Processor) variants(img image.Image, hash string, use Use) (*Result, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	widths := Widths(p.widths, w, use.MaxWidth)

	res := &Result{Variants: make([]Variant, 0, len(widths))}
	srcset := make([]string, 0, len(widths))

	for _, vw := range widths {
		vh := max(1, h*vw/w)

		var out image.Image = img
		if vw != w {
			dst := image.NewRGBA(image.Rect(0, 0, vw, vh))
			draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
			out = dst
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}

		target := path.Join(Dir, fmt.Sprintf("%s-%d.jpg", hash, vw))
		res.Variants = append(res.Variants, Variant{Width: vw, Height: vh, Target: target, Data: buf.Bytes()})
		srcset = append(srcset, fmt.Sprintf("%s %dw", p.url(target), vw))
	}

	largest := res.Variants[len(res.Variants)-1]
	res.Image = content.Image{
		Src:         p.url(largest.Target),
		SrcSet:      strings.Join(srcset, ", "),
		Sizes:       fmt.Sprintf("(max-width: %dpx) 100vw, %dpx", largest.Width, largest.Width),
		Width:       largest.Width,
		Height:      largest.Height,
		AspectRatio: float64(largest.Width) / float64(largest.Height),
	}

	return res, nil
}

func (p *Processor) url(target string) string {
	base := strings.TrimRight(p.basePath, "/")
	return base + "/" + target
}

// Widths picks the variant widths for an image of width w: the configured
// widths below the cap, plus the cap itself. The cap is the smaller of w and
// maxWidth.
func Widths(configured []int, w, maxWidth int) []int {
	limit := w
	if maxWidth > 0 {
		limit = min(w, maxWidth)
	}

	out := make([]int, 0, len(configured)+1)
	for _, cw := range configured {
		if cw > 0 && cw < limit {
			out = append(out, cw)
		}
	}
	return append(out, limit)
}

// cropSquare crops the largest centred square out of img.
func cropSquare(img image.Image) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return dst
}

// Remote describes an image that is not processed, such as one already
// hosted elsewhere.
func Remote(src string) *content.Image {
	return &content.Image{Src: src}
}
