package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/watcher"
)

type DevServer struct {
	builder *Builder
	server  *Server
	watcher *watcher.Watcher
	ui      *UI
	logger  *log.Logger
}

type DevServerConfig struct {
	ConfigPath string
	DistDir    string
	Host       string
	Port       int
	Debounce   time.Duration
	NoUI       bool
	Logger     *log.Logger
}

func NewDevServer(config DevServerConfig) (*DevServer, error) {
	builder := NewBuilder(config.ConfigPath, config.DistDir, false)

	cfg, err := builder.Config()
	if err != nil {
		return nil, err
	}

	server := NewServer(ServerConfig{
		DistDir:  cfg.Build.Output,
		Host:     config.Host,
		Port:     config.Port,
		BasePath: cfg.Site.BasePath,
		Reload:   true,
	})

	w, err := watcher.New(config.ConfigPath, config.Debounce)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &DevServer{
		builder: builder,
		server:  server,
		watcher: w,
		ui:      NewUI(!config.NoUI, logger),
		logger:  logger,
	}, nil
}

func (ds *DevServer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	baseURL, err := ds.server.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	if err := ds.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	buildRequests := make(chan BuildRequest, 10)
	select {
	case buildRequests <- BuildRequest{Reason: "initial"}:
	default:
	}

	if ds.ui.IsInteractive() {
		return ds.runWithUI(ctx, cancel, baseURL, buildRequests)
	}
	return ds.runWithoutUI(ctx, baseURL, buildRequests)
}

func (ds *DevServer) runWithUI(ctx context.Context, cancel context.CancelFunc, baseURL string, buildRequests chan BuildRequest) error {
	program := tea.NewProgram(ds.ui.NewModel(baseURL, buildRequests), tea.WithContext(ctx))
	send := func(msg tea.Msg) { program.Send(msg) }

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ds.buildWorker(ctx, buildRequests, events.HandlerFunc(func(e events.Event) {
			send(eventMsg(e))
		}), func(msg tea.Msg) {
			send(msg)
		})
	}()
	go func() {
		defer wg.Done()
		ds.forwardWatch(ctx, buildRequests, func(s string) { send(logMsg(s)) })
	}()

	_, err := program.Run()
	cancel()
	wg.Wait()

	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (ds *DevServer) runWithoutUI(ctx context.Context, baseURL string, buildRequests chan BuildRequest) error {
	ds.logger.Info("hyoushi dev server started", "url", baseURL)
	ds.logger.Info("watching", "paths", strings.Join(ds.watcher.Paths(), ", "))

	handler := EventLogger(ds.logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ds.buildWorker(ctx, buildRequests, handler, func(msg tea.Msg) {
			if r, ok := msg.(buildResultMsg); ok {
				ds.ui.LogResult(BuildResult(r))
			}
		})
	}()
	go func() {
		defer wg.Done()
		ds.forwardWatch(ctx, buildRequests, ds.ui.LogEvent)
	}()

	<-ctx.Done()
	wg.Wait()
	return nil
}

// forwardWatch turns watcher batches into build requests.
func (ds *DevServer) forwardWatch(ctx context.Context, buildRequests chan<- BuildRequest, logf func(string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ds.watcher.Events:
			select {
			case buildRequests <- BuildRequest{Reason: ev.Reason, Paths: ev.Paths}:
			default:
				logf("rebuild skipped: request queue full")
			}
		case err := <-ds.watcher.Errors:
			logf(fmt.Sprintf("watch error: %v", err))
		}
	}
}

// buildWorker runs builds one at a time, coalescing requests that queued up
// while a build was running.
func (ds *DevServer) buildWorker(ctx context.Context, requests <-chan BuildRequest, handler events.Handler, notify func(tea.Msg)) {
	buildCount := 0

	for {
		var req BuildRequest
		select {
		case <-ctx.Done():
			return
		case req = <-requests:
		}

	drain:
		for {
			select {
			case more := <-requests:
				req.Paths = append(req.Paths, more.Paths...)
			default:
				break drain
			}
		}

		buildCount++
		notify(BuildStartedMsg{Reason: req.Reason, Number: buildCount})

		result := ds.builder.Build(ctx, true, handler)
		result.Reason = req.Reason
		result.Paths = req.Paths
		result.Number = buildCount

		if result.Error == nil {
			ds.server.Reload()
		}
		notify(buildResultMsg(result))
	}
}

func (ds *DevServer) Close() error {
	var errs []error

	if err := ds.watcher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("watcher close: %w", err))
	}

	if err := ds.server.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	return errors.Join(errs...)
}

type BuildRequest struct {
	Reason string
	Paths  []string
}

type BuildStartedMsg struct {
	Reason string
	Number int
}
