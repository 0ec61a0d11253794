package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptAudio      = "audio/webm,audio/ogg,audio/wav,audio/*;q=0.9,application/ogg;q=0.7,video/*;q=0.6,*/*;q=0.5"
	acceptLanguage   = "zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7"
	defaultChunkSize = 8192
)

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every request. Empty selects a desktop browser UA.
	UserAgent string

	// Referer is sent with every request when not empty.
	Referer string

	// ProbeTimeout bounds a HEAD probe. Zero means no timeout.
	ProbeTimeout time.Duration

	// FetchTimeout bounds the wait for response headers of body requests
	// and, during DownloadFile, the gap between two body reads. A slow but
	// steady transfer is never cut off.
	FetchTimeout time.Duration

	// ChunkSize is the copy buffer size used by DownloadFile.
	ChunkSize int
}

// Client wraps HTTP operations with the service's static header set.
//
// Client provides:
//   - Browser-like User-Agent, Accept and Referer headers
//   - Existence probes via HEAD requests
//   - File download with progress tracking and partial-file cleanup
//   - Small GET requests for JSON lookups
//
// Client performs no retries; see the download package for that.
type Client struct {
	httpClient   *http.Client
	header       http.Header
	probeTimeout time.Duration
	idleTimeout  time.Duration
	chunkSize    int
}

// ErrStalled is returned by DownloadFile when the body stops delivering
// data for longer than the fetch timeout.
var ErrStalled = errors.New("transfer stalled")

// NewClient creates a new HTTP client from opts.
func NewClient(opts Options) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = opts.FetchTimeout

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	header := http.Header{}
	header.Set("User-Agent", ua)
	header.Set("Accept", acceptAudio)
	header.Set("Accept-Language", acceptLanguage)
	if opts.Referer != "" {
		header.Set("Referer", opts.Referer)
	}

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}

	return &Client{
		httpClient:   &http.Client{Transport: transport},
		header:       header,
		probeTimeout: opts.ProbeTimeout,
		idleTimeout:  opts.FetchTimeout,
		chunkSize:    chunk,
	}
}

// ProbeResult is the outcome of a HEAD request.
type ProbeResult struct {
	StatusCode         int
	Status             string
	ContentType        string
	ContentLength      int64
	ContentDisposition string
}

// Found reports whether the probe returned 200 OK.
func (r *ProbeResult) Found() bool {
	return r.StatusCode == http.StatusOK
}

// NotFound reports whether the probe returned 404.
func (r *ProbeResult) NotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// FileName returns the filename announced by Content-Disposition, or "".
func (r *ProbeResult) FileName() string {
	return FileNameFromDisposition(r.ContentDisposition)
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// It is -1 or 0 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Observer receives notifications during DownloadFile. Nil fields are skipped.
type Observer struct {
	// OnResponse is called once the response headers arrived, before any
	// byte is written. total is -1 when the server did not declare a size.
	OnResponse func(contentType string, total int64)

	// OnProgress is called after every chunk written to disk.
	OnProgress func(written, total int64)
}

// Probe issues a HEAD request and reports status and headers.
//
// Any HTTP status is a successful probe; only transport failures
// (timeouts, refused connections) are returned as errors.
func (c *Client) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return &ProbeResult{
		StatusCode:         resp.StatusCode,
		Status:             resp.Status,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentLength:      resp.ContentLength,
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// A positive timeout bounds the whole request including the body.
// Returns a *StatusError when the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// DownloadFile streams url into destPath and returns the number of bytes written.
//
// The file is created (or truncated if it exists) only after a 200 or 206
// response arrived. The body is copied in ChunkSize pieces through a
// ProgressWriter. If anything fails after the file was created, including
// context cancellation, the file is removed before returning so callers
// never see a truncated download. A body that stays silent for longer than
// FetchTimeout fails with ErrStalled.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, obs Observer) (int64, error) {
	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	req, err := c.newRequest(reqCtx, http.MethodGet, url)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if obs.OnResponse != nil {
		obs.OnResponse(resp.Header.Get("Content-Type"), resp.ContentLength)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: obs.OnProgress,
	}

	var body io.Reader = resp.Body
	if c.idleTimeout > 0 {
		idle := newIdleReader(resp.Body, c.idleTimeout, func() { cancel(ErrStalled) })
		defer idle.stop()
		body = idle
	}

	buf := make([]byte, c.chunkSize)
	_, copyErr := io.CopyBuffer(pw, body, buf)
	if copyErr != nil && ctx.Err() == nil && errors.Is(context.Cause(reqCtx), ErrStalled) {
		copyErr = fmt.Errorf("%w: no data for %s after %d bytes", ErrStalled, c.idleTimeout, pw.Written)
	}
	closeErr := file.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Join(err, rmErr)
		}
		return pw.Written, err
	}

	return pw.Written, nil
}

// idleReader calls onIdle when no Read returned data for timeout.
type idleReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
}

func newIdleReader(r io.Reader, timeout time.Duration, onIdle func()) *idleReader {
	return &idleReader{r: r, timeout: timeout, timer: time.AfterFunc(timeout, onIdle)}
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.Reset(ir.timeout)
	}
	return n, err
}

func (ir *idleReader) stop() {
	ir.timer.Stop()
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.header {
		req.Header[k] = append([]string(nil), v...)
	}
	return req, nil
}

// StatusError is returned for responses with an unexpected status code.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// IsAudioContentType reports whether a Content-Type denotes audio or a
// generic binary stream.
func IsAudioContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "audio") || strings.Contains(ct, "octet-stream")
}

// FileNameFromDisposition extracts the filename parameter of a
// Content-Disposition header value. It returns "" when there is none.
func FileNameFromDisposition(disposition string) string {
	if disposition == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	// Lenient fallback for values mime rejects, e.g. unquoted spaces.
	idx := strings.LastIndex(disposition, "filename=")
	if idx == -1 {
		return ""
	}
	name := disposition[idx+len("filename="):]
	if semi := strings.Index(name, ";"); semi != -1 {
		name = name[:semi]
	}
	return strings.Trim(strings.TrimSpace(name), `"'`)
}
