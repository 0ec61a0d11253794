package download

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/netease-downloader/internal/config"
)

// fakeService imitates the media, detail, search and list endpoints.
type fakeService struct {
	t  *testing.T
	mu sync.Mutex

	heads map[string]int
	gets  map[string]int

	status      map[string]int    // probe status per track id, default 200
	failFirst   map[string]int    // initial probes answered with 503
	disposition map[string]string // Content-Disposition per track id
	headLength  map[string]string // Content-Length announced by HEAD
	contentType string
	body        []byte
	truncate    bool

	details map[string]string // detail JSON per track id
	search  string
	list    string
	cover   []byte
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	f := &fakeService{
		t:           t,
		heads:       make(map[string]int),
		gets:        make(map[string]int),
		status:      make(map[string]int),
		failFirst:   make(map[string]int),
		disposition: make(map[string]string),
		headLength:  make(map[string]string),
		details:     make(map[string]string),
		contentType: "audio/mpeg",
		body:        bytes.Repeat([]byte("a"), 1024),
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/song/media/outer/url":
		f.serveMedia(w, r)
	case "/api/song/detail/":
		id := strings.Trim(r.URL.Query().Get("ids"), "[]")
		body, ok := f.details[id]
		if !ok {
			body = `{"songs":[],"code":200}`
		}
		_, _ = w.Write([]byte(body))
	case "/api/search/get/web":
		_, _ = w.Write([]byte(f.search))
	case "/list":
		_, _ = w.Write([]byte(f.list))
	case "/cover.jpg":
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(f.cover)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) serveMedia(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(r.URL.Query().Get("id"), ".mp3")

	f.mu.Lock()
	if r.Method == http.MethodHead {
		f.heads[id]++
	} else {
		f.gets[id]++
	}
	probes := f.heads[id]
	f.mu.Unlock()

	if r.Method == http.MethodHead {
		if probes <= f.failFirst[id] {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if code, ok := f.status[id]; ok {
			w.WriteHeader(code)
			return
		}
		if d, ok := f.disposition[id]; ok {
			w.Header().Set("Content-Disposition", d)
		}
		if n, ok := f.headLength[id]; ok {
			w.Header().Set("Content-Length", n)
		}
		w.Header().Set("Content-Type", f.contentType)
		w.WriteHeader(http.StatusOK)
		return
	}

	if f.truncate {
		hj, ok := w.(http.Hijacker)
		if !ok {
			f.t.Error("response writer is not a hijacker")
			return
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			f.t.Error(err)
			return
		}
		defer conn.Close()
		_, _ = fmt.Fprintf(buf, "HTTP/1.1 200 OK\r\nContent-Type: audio/mpeg\r\nContent-Length: %d\r\n\r\n", len(f.body)*2)
		_, _ = buf.Write(f.body)
		_ = buf.Flush()
		return
	}

	w.Header().Set("Content-Type", f.contentType)
	_, _ = w.Write(f.body)
}

func (f *fakeService) headCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heads[id]
}

func (f *fakeService) getCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[id]
}

// recorder collects progress events.
type recorder struct {
	events    []ProgressEvent
	transfers []TransferUpdate
}

func (r *recorder) onProgress(e ProgressEvent) {
	r.events = append(r.events, e)
}

func (r *recorder) onTransfer(u TransferUpdate) {
	r.transfers = append(r.transfers, u)
}

func (r *recorder) has(level ProgressLevel, substr string) bool {
	for _, e := range r.events {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (r *recorder) contains(substr string) bool {
	for _, e := range r.events {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func testSettings(t *testing.T, srv *httptest.Server) *config.Settings {
	s := config.DefaultSettings()
	s.SaveDir = filepath.Join(t.TempDir(), "downloads")
	s.BaseURL = srv.URL
	s.RetryDelay = 0
	s.PaceDelay = 0
	s.ProbeTimeout = 5
	s.FetchTimeout = 5
	s.MetadataTimeout = 5
	s.APITimeout = 5
	return s
}

func newTestDownloader(s *config.Settings, opts ...Option) (*Downloader, *recorder) {
	rec := &recorder{}
	opts = append([]Option{
		WithProgress(rec.onProgress),
		WithTransferProgress(rec.onTransfer),
	}, opts...)
	return NewDownloader(s, opts...), rec
}

func testJPEG(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
