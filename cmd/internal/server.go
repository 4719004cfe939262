package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NotFoundPage is the page served, with status 404, for unknown paths.
const NotFoundPage = "404.html"

type Server struct {
	server *http.Server
	echo   *echo.Echo
	addr   string
	hub    *ReloadHub
}

type ServerConfig struct {
	DistDir  string
	Host     string
	Port     int
	BasePath string
	Reload   bool
}

func NewServer(config ServerConfig) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo: e,
		hub:  NewReloadHub(),
	}

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			if page, readErr := os.ReadFile(filepath.Join(config.DistDir, NotFoundPage)); readErr == nil {
				_ = c.HTMLBlob(http.StatusNotFound, page)
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}

	if base := strings.Trim(config.BasePath, "/"); base != "" {
		e.Pre(middleware.Rewrite(map[string]string{
			"/" + base:        "/",
			"/" + base + "/*": "/$1",
		}))
	}

	e.Use(middleware.Recover())
	e.Use(noStore)
	if config.Reload {
		e.GET(ReloadPath, echo.WrapHandler(http.HandlerFunc(s.hub.Serve)))
		e.Use(ReloadMiddleware)
	}
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  config.DistDir,
		Index: "index.html",
	}))

	host := config.Host
	if host == "" {
		host = "127.0.0.1"
	}

	s.addr = net.JoinHostPort(host, fmt.Sprint(config.Port))
	s.server = &http.Server{
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func noStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return next(c)
	}
}

// Handler exposes the server's routes, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Reload tells every open page to reload.
func (s *Server) Reload() {
	s.hub.Broadcast("reload")
}

func (s *Server) Start(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	go func() {
		_ = s.server.Serve(ln)
	}()

	go func() {
		<-ctx.Done()
		_ = s.server.Close()
	}()

	return "http://" + ln.Addr().String() + "/", nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
