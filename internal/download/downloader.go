package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dustin/go-humanize"
	"github.com/handiism/netease-downloader/internal/audio"
	"github.com/handiism/netease-downloader/internal/config"
	"github.com/handiism/netease-downloader/internal/http"
	ioutils "github.com/handiism/netease-downloader/internal/io"
	"github.com/handiism/netease-downloader/internal/logctx"
	"github.com/handiism/netease-downloader/internal/model"
	"github.com/handiism/netease-downloader/internal/netease"
)

// Downloader fetches tracks into the configured save directory.
type Downloader struct {
	settings *config.Settings
	client   *http.Client
	urls     *netease.URLBuilder
	tagger   *audio.Tagger

	onProgress func(ProgressEvent)
	onTransfer func(TransferUpdate)
	confirm    ConfirmFunc
	sleep      func(ctx context.Context, d time.Duration)
	after      afterFunc
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithProgress sets the status event callback.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(d *Downloader) { d.onProgress = fn }
}

// WithTransferProgress sets the per-chunk byte progress callback.
func WithTransferProgress(fn func(TransferUpdate)) Option {
	return func(d *Downloader) { d.onTransfer = fn }
}

// WithConfirm sets the overwrite decision used by the "ask" policy.
// Without it, existing files are kept.
func WithConfirm(fn ConfirmFunc) Option {
	return func(d *Downloader) { d.confirm = fn }
}

// WithTagger replaces the ID3 tagger used when settings.WriteTags is on.
func WithTagger(t *audio.Tagger) Option {
	return func(d *Downloader) { d.tagger = t }
}

// NewDownloader creates a Downloader from settings.
func NewDownloader(settings *config.Settings, opts ...Option) *Downloader {
	urls := netease.NewURLBuilder(settings.BaseURL)

	d := &Downloader{
		settings: settings,
		urls:     urls,
		client: http.NewClient(http.Options{
			UserAgent:    settings.UserAgent,
			Referer:      urls.Referer(),
			ProbeTimeout: settings.ProbeTimeoutDuration(),
			FetchTimeout: settings.FetchTimeoutDuration(),
			ChunkSize:    settings.ChunkSize,
		}),
		tagger: audio.NewTagger(),
		sleep:  sleepContext,
		after:  time.After,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SaveDir returns the directory downloads are written to.
func (d *Downloader) SaveDir() string {
	return d.settings.SaveDir
}

// EnsureSaveDir creates the save directory if it is absent.
func (d *Downloader) EnsureSaveDir() error {
	return ioutils.EnsureDir(d.settings.SaveDir)
}

// outcome is the result of one successful attempt.
type outcome struct {
	path       string
	downloaded bool // false when an existing file was kept
}

// Download fetches one track and returns the path of the file on disk.
//
// The loop makes at most settings.MaxRetries attempts with a fixed
// settings.RetryDelay pause in between. A 404 probe stops immediately with a
// *NotFoundError. When the destination exists and overwriting is declined,
// the existing path is returned without touching the file. After the last
// failed attempt the returned path is empty and err holds the final cause.
func (d *Downloader) Download(ctx context.Context, ref model.TrackRef) (string, error) {
	logger := logctx.LoggerFromContext(ctx).With("track_id", ref.ID)
	url := d.urls.DownloadURL(ref.ID)
	attempts := d.settings.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	d.progress(LevelInfo, "Downloading track %s", ref.ID)
	d.progress(LevelVerbose, "URL: %s", url)

	if err := d.EnsureSaveDir(); err != nil {
		d.progress(LevelError, "Cannot create save directory: %v", err)
		return "", &LocalIOError{Path: d.settings.SaveDir, Err: err}
	}

	var result outcome
	err := retry.Do(
		func() error {
			out, err := d.attempt(ctx, ref, url)
			if err != nil {
				return err
			}
			result = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(d.settings.RetryDelayDuration()),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.WithTimer(d.after),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("download attempt failed", "attempt", n+1, "err", err)
			if int(n)+1 < attempts {
				d.progress(LevelWarning, "Attempt %d/%d failed: %v, retrying", n+1, attempts, err)
			} else {
				d.progress(LevelWarning, "Attempt %d/%d failed: %v", n+1, attempts, err)
			}
		}),
	)
	if err != nil {
		switch {
		case IsNotFound(err):
			d.progress(LevelError, "Track %s does not exist (404)", ref.ID)
		case ctx.Err() != nil:
			d.progress(LevelError, "Download of %s cancelled", ref.ID)
		case errors.Is(err, ErrInsufficientSpace):
			d.progress(LevelError, "Download of %s skipped: %v", ref.ID, err)
		default:
			d.progress(LevelError, "Download of %s failed after %d attempts", ref.ID, attempts)
		}
		logger.Info("download failed", "err", err)
		return "", err
	}

	if result.downloaded {
		d.tagFile(ctx, ref, result.path)
	}

	return result.path, nil
}

// attempt runs Probing → Deciding → Downloading once.
func (d *Downloader) attempt(ctx context.Context, ref model.TrackRef, url string) (outcome, error) {
	probe, err := d.client.Probe(ctx, url)
	if err != nil {
		return outcome{}, &TransientError{Op: "probe", Err: err}
	}
	if probe.NotFound() {
		return outcome{}, retry.Unrecoverable(&NotFoundError{TrackID: ref.ID})
	}
	if !probe.Found() {
		return outcome{}, &TransientError{Op: "probe", StatusCode: probe.StatusCode}
	}

	path := d.resolvePath(ref, probe)

	exists, err := ioutils.FileExists(path)
	if err != nil {
		return outcome{}, &LocalIOError{Path: path, Err: err}
	}
	if exists {
		d.progress(LevelWarning, "File already exists: %s", filepath.Base(path))
		if !d.shouldOverwrite(path) {
			d.progress(LevelInfo, "Skipping download, keeping %s", filepath.Base(path))
			return outcome{path: path}, nil
		}
	}

	if err := d.checkFreeSpace(path, probe.ContentLength); err != nil {
		return outcome{}, retry.Unrecoverable(err)
	}

	d.progress(LevelInfo, "Saving as %s", filepath.Base(path))

	var written int64
	var total int64 = -1
	n, err := d.client.DownloadFile(ctx, url, path, http.Observer{
		OnResponse: func(contentType string, size int64) {
			total = size
			if !http.IsAudioContentType(contentType) {
				d.progress(LevelWarning, "Response may not be audio (Content-Type: %s)", contentType)
			}
		},
		OnProgress: func(w, t int64) {
			written = w
			d.transfer(TransferUpdate{TrackID: ref.ID, Written: w, Total: t})
		},
	})
	d.transfer(TransferUpdate{TrackID: ref.ID, Written: written, Total: total, Done: true})
	if err != nil {
		err = classifyFetchError(path, err)
		d.progress(LevelError, "Transfer failed: %v", err)
		return outcome{}, err
	}

	d.progress(LevelSuccess, "Downloaded %s (%s)", filepath.Base(path), humanize.Bytes(uint64(n)))
	return outcome{path: path, downloaded: true}, nil
}

// resolvePath picks the destination: override, Content-Disposition name,
// then the synthesized fallback.
func (d *Downloader) resolvePath(ref model.TrackRef, probe *http.ProbeResult) string {
	candidates := []string{ref.OverrideFileName(), probe.FileName(), ref.FallbackFileName()}
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if path, err := ioutils.SafeJoin(d.settings.SaveDir, name); err == nil {
			return path
		}
	}
	return filepath.Join(d.settings.SaveDir, ref.FallbackFileName())
}

// checkFreeSpace fails when the announced size does not fit on disk. An
// unknown size or free-space lookup failure passes.
func (d *Downloader) checkFreeSpace(path string, size int64) error {
	if size <= 0 {
		return nil
	}
	free, err := ioutils.FreeSpace(d.settings.SaveDir)
	if err != nil || uint64(size) <= free {
		return nil
	}
	d.progress(LevelError, "Need %s but only %s free in %s",
		humanize.Bytes(uint64(size)), humanize.Bytes(free), d.settings.SaveDir)
	return &LocalIOError{Path: path, Err: ErrInsufficientSpace}
}

func (d *Downloader) shouldOverwrite(path string) bool {
	switch d.settings.Overwrite {
	case config.OverwriteAlways:
		return true
	case config.OverwriteNever:
		return false
	default:
		if d.confirm == nil {
			return false
		}
		return d.confirm(path)
	}
}

func classifyFetchError(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &LocalIOError{Path: path, Err: err}
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return &TransientError{Op: "fetch", StatusCode: statusErr.StatusCode, Err: err}
	}
	return &TransientError{Op: "fetch", Err: err}
}

func (d *Downloader) progress(level ProgressLevel, format string, args ...any) {
	if d.onProgress != nil {
		d.onProgress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}

func (d *Downloader) transfer(u TransferUpdate) {
	if d.onTransfer != nil {
		d.onTransfer(u)
	}
}

// afterFunc adapts a time.After-like function to retry.Timer.
type afterFunc func(time.Duration) <-chan time.Time

func (f afterFunc) After(d time.Duration) <-chan time.Time { return f(d) }

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
