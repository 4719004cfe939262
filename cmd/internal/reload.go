package internal

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/olimci/hyoushi/pkg/utils/set"
)

// ReloadPath is the event stream pages subscribe to for reloads.
const ReloadPath = "/_hyoushi/reload"

func NewReloadClient() *ReloadClient {
	return &ReloadClient{
		Send: make(chan string, 8),
	}
}

type ReloadClient struct {
	Send chan string
}

func NewReloadHub() *ReloadHub {
	return &ReloadHub{
		clients: set.New[*ReloadClient](),
	}
}

type ReloadHub struct {
	mu      sync.RWMutex
	clients *set.Set[*ReloadClient]
}

func (h *ReloadHub) Broadcast(msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients.Values() {
		select {
		case client.Send <- msg:
		default:
		}
	}
}

func (h *ReloadHub) Subscribe() *ReloadClient {
	client := NewReloadClient()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients.Add(client)

	return client
}

func (h *ReloadHub) Unsubscribe(client *ReloadClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients.Delete(client)
}

func (h *ReloadHub) Serve(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := h.Subscribe()
	defer h.Unsubscribe(client)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg := <-client.Send:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
				return
			}
			flusher.Flush()
			if msg == "reload" {
				return
			}
		}
	}
}

func injectReloadScript(html string) string {
	snippet := `<script>
(() => {
  const es = new EventSource("` + ReloadPath + `");
  es.onmessage = (event) => {
    if (event.data === "reload") {
      es.close();
      window.location.reload();
    }
  };
  window.addEventListener("beforeunload", () => {
    es.close();
  });
})();
</script>`

	lower := strings.ToLower(html)
	if idx := strings.LastIndex(lower, "</body>"); idx != -1 {
		return html[:idx] + snippet + html[idx:]
	}
	if idx := strings.LastIndex(lower, "</html>"); idx != -1 {
		return html[:idx] + snippet + html[idx:]
	}
	return html + snippet
}

// ReloadMiddleware injects the reload script into HTML responses,
// including error pages rendered by the server's error handler.
func ReloadMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !shouldInjectReload(c.Request()) {
			return next(c)
		}

		res := c.Response()
		original := res.Writer
		buf := &bufferedWriter{header: original.Header(), status: http.StatusOK}
		res.Writer = buf

		if err := next(c); err != nil {
			c.Error(err)
		}
		res.Writer = original

		body := buf.body.Bytes()
		if len(body) > 0 && strings.Contains(original.Header().Get(echo.HeaderContentType), "text/html") {
			body = []byte(injectReloadScript(string(body)))
		}
		original.Header().Set(echo.HeaderContentLength, strconv.Itoa(len(body)))
		original.WriteHeader(buf.status)
		_, err := original.Write(body)
		return err
	}
}

type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *bufferedWriter) Header() http.Header         { return w.header }
func (w *bufferedWriter) WriteHeader(code int)        { w.status = code }
func (w *bufferedWriter) Write(b []byte) (int, error) { return w.body.Write(b) }

func shouldInjectReload(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	ext := strings.ToLower(path.Ext(r.URL.Path))
	if ext != "" && ext != ".html" && ext != ".htm" {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}

	return strings.Contains(accept, "text/html")
}
