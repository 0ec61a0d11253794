package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return NewClient(Options{Referer: "https://music.163.com/", ChunkSize: 16})
}

func TestProbe(t *testing.T) {
	var gotUA, gotReferer, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		if r.URL.Query().Get("id") == "404.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Disposition", `attachment; filename="song.mp3"`)
		w.Header().Set("Content-Length", "42")
	}))
	defer srv.Close()

	c := newTestClient()

	res, err := c.Probe(context.Background(), srv.URL+"/song/media/outer/url?id=1.mp3")
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.Equal(t, "audio/mpeg", res.ContentType)
	assert.Equal(t, int64(42), res.ContentLength)
	assert.Equal(t, "song.mp3", res.FileName())
	assert.Equal(t, http.MethodHead, gotMethod)
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Equal(t, "https://music.163.com/", gotReferer)

	res, err = c.Probe(context.Background(), srv.URL+"/song/media/outer/url?id=404.mp3")
	require.NoError(t, err)
	assert.True(t, res.NotFound())
	assert.False(t, res.Found())
}

func TestProbe_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient().Probe(context.Background(), url)
	assert.Error(t, err)
}

func TestDownloadFile(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "song.mp3")

	var calls int
	var lastWritten, lastTotal int64
	var contentType string
	n, err := newTestClient().DownloadFile(context.Background(), srv.URL, dest, Observer{
		OnResponse: func(ct string, total int64) { contentType = ct },
		OnProgress: func(written, total int64) {
			calls++
			lastWritten, lastTotal = written, total
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, "audio/mpeg", contentType)
	assert.Equal(t, int64(100), lastWritten)
	assert.Equal(t, int64(100), lastTotal)
	assert.GreaterOrEqual(t, calls, 7, "16-byte chunks should report progress per chunk")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadFile_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "song.mp3")
	_, err := newTestClient().DownloadFile(context.Background(), srv.URL, dest, Observer{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.NoFileExists(t, dest)
}

func TestDownloadFile_TruncatedBodyRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer is not a hijacker")
			return
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			t.Error(err)
			return
		}
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: audio/mpeg\r\nContent-Length: 1000\r\n\r\n")
		_, _ = buf.Write(bytes.Repeat([]byte("b"), 100))
		_ = buf.Flush()
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "partial.mp3")
	_, err := newTestClient().DownloadFile(context.Background(), srv.URL, dest, Observer{})

	require.Error(t, err)
	assert.NoFileExists(t, dest)
}

func TestDownloadFile_StalledBodyTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", "2048")
		_, _ = w.Write(bytes.Repeat([]byte("s"), 1024))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{FetchTimeout: 200 * time.Millisecond, ChunkSize: 256})
	dest := filepath.Join(t.TempDir(), "stalled.mp3")

	done := make(chan error, 1)
	go func() {
		_, err := c.DownloadFile(context.Background(), srv.URL, dest, Observer{})
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrStalled)
		assert.NoFileExists(t, dest)
	case <-time.After(3 * time.Second):
		t.Fatal("DownloadFile did not give up on a stalled body")
	}
}

func TestDownloadFile_SlowSteadyBodyCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "40")
		for i := 0; i < 4; i++ {
			_, _ = w.Write(bytes.Repeat([]byte("x"), 10))
			w.(http.Flusher).Flush()
			time.Sleep(100 * time.Millisecond)
		}
	}))
	defer srv.Close()

	c := NewClient(Options{FetchTimeout: 250 * time.Millisecond})
	dest := filepath.Join(t.TempDir(), "slow.mp3")

	n, err := c.DownloadFile(context.Background(), srv.URL, dest, Observer{})
	require.NoError(t, err)
	assert.Equal(t, int64(40), n)
}

func TestDownloadFile_UnwritableDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing-dir", "song.mp3")
	_, err := newTestClient().DownloadFile(context.Background(), srv.URL, dest, Observer{})

	var pathErr *os.PathError
	assert.True(t, errors.As(err, &pathErr), "expected *os.PathError, got %T", err)
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"songs":[]}`))
	}))
	defer srv.Close()

	c := newTestClient()

	body, err := c.Get(context.Background(), srv.URL+"/ok", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"songs":[]}`, string(body))

	_, err = c.Get(context.Background(), srv.URL+"/missing", 0)
	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestFileNameFromDisposition(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`attachment; filename="song.mp3"`, "song.mp3"},
		{`attachment; filename=song.mp3`, "song.mp3"},
		{`attachment; filename*=UTF-8''%E6%99%B4%E5%A4%A9.mp3`, "晴天.mp3"},
		{`attachment; filename=my song.mp3`, "my song.mp3"},
		{`inline`, ""},
		{``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FileNameFromDisposition(tt.input); got != tt.want {
				t.Errorf("FileNameFromDisposition(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsAudioContentType(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"audio/mpeg", true},
		{"Audio/MPEG", true},
		{"application/octet-stream", true},
		{"text/html; charset=utf-8", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsAudioContentType(tt.input); got != tt.want {
				t.Errorf("IsAudioContentType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
