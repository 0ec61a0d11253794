package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/netease-downloader/internal/audio"
	ioutils "github.com/handiism/netease-downloader/internal/io"
	"github.com/handiism/netease-downloader/internal/logctx"
	"github.com/handiism/netease-downloader/internal/model"
	"github.com/handiism/netease-downloader/internal/tracklist"
)

// BatchResult summarizes a batch run.
type BatchResult struct {
	// Source is the list file path or API URL.
	Source string

	// Attempted counts the track references handed to Download.
	Attempted int

	// Saved holds the paths returned by successful downloads, in order.
	Saved []string

	// Failed holds the references whose download failed.
	Failed []model.TrackRef

	// Playlist is the written playlist path, if any.
	Playlist string
}

// Succeeded returns the number of successful items.
func (r *BatchResult) Succeeded() int {
	return len(r.Saved)
}

// DownloadList downloads every entry of a list file.
//
// Only a list file that cannot be read fails the batch; the returned result
// is then empty and err is set.
func (d *Downloader) DownloadList(ctx context.Context, path string) (*BatchResult, error) {
	refs, err := tracklist.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.progress(LevelError, "List file does not exist: %s", path)
		} else {
			d.progress(LevelError, "Cannot read list file %s: %v", path, err)
		}
		return &BatchResult{Source: path}, err
	}

	d.progress(LevelInfo, "Starting batch download of %d tracks from %s", len(refs), path)

	result := d.DownloadRefs(ctx, refs)
	result.Source = path
	d.writePlaylist(ctx, result, baseName(path))
	return result, nil
}

// DownloadFromAPI fetches a JSON list of tracks from url and downloads them.
//
// Fetch failures, malformed JSON and responses without identifiers all end
// with an empty result and an error event; the returned error is always nil.
func (d *Downloader) DownloadFromAPI(ctx context.Context, url string) (*BatchResult, error) {
	empty := &BatchResult{Source: url}
	d.progress(LevelInfo, "Fetching track list from %s", url)

	body, err := d.client.Get(ctx, url, d.settings.APITimeoutDuration())
	if err != nil {
		d.progress(LevelError, "Failed to fetch track list: %v", &TransientError{Op: "api", Err: err})
		return empty, nil
	}

	listing, err := tracklist.ParseAPIResponse(body)
	if err != nil {
		d.progress(LevelError, "Failed to read track list: %v", &MalformedResponseError{Source: url, Err: err})
		return empty, nil
	}
	if len(listing.Refs) == 0 {
		d.progress(LevelError, "No valid track IDs found")
		return empty, nil
	}

	logctx.LoggerFromContext(ctx).Debug("api listing parsed", "shape", listing.Shape.String(), "count", len(listing.Refs))
	d.progress(LevelInfo, "Found %d tracks", len(listing.Refs))

	result := d.DownloadRefs(ctx, listing.Refs)
	result.Source = url
	d.writePlaylist(ctx, result, "api")
	return result, nil
}

// DownloadRefs downloads refs one after another, pausing settings.PaceDelay
// after every item regardless of its outcome. Cancelling ctx stops the
// batch before the next item.
func (d *Downloader) DownloadRefs(ctx context.Context, refs []model.TrackRef) *BatchResult {
	result := &BatchResult{}

	for i, ref := range refs {
		if ctx.Err() != nil {
			d.progress(LevelWarning, "Batch interrupted, %d tracks not attempted", len(refs)-i)
			break
		}

		result.Attempted++
		d.progress(LevelInfo, "[%d/%d] %s", i+1, len(refs), ref.String())

		path, err := d.Download(ctx, ref)
		if err != nil {
			result.Failed = append(result.Failed, ref)
		} else {
			result.Saved = append(result.Saved, path)
		}

		d.sleep(ctx, d.settings.PaceDelayDuration())
	}

	level := LevelSuccess
	if len(result.Failed) > 0 || result.Attempted < len(refs) {
		level = LevelWarning
	}
	d.progress(level, "Batch complete, succeeded: %d/%d", result.Succeeded(), len(refs))

	return result
}

func (d *Downloader) writePlaylist(ctx context.Context, result *BatchResult, name string) {
	format, ok := audio.ParsePlaylistFormat(d.settings.PlaylistFormat)
	if !ok || len(result.Saved) == 0 {
		return
	}

	entries := make([]audio.PlaylistEntry, 0, len(result.Saved))
	for _, path := range result.Saved {
		entry := audio.PlaylistEntry{Path: path}
		if d.tagger != nil {
			if title, artist, err := d.tagger.ReadTags(path); err == nil && title != "" {
				entry.Title = title
				if artist != "" {
					entry.Title = artist + " - " + title
				}
			}
		}
		entries = append(entries, entry)
	}

	creator := audio.NewPlaylistCreator(format, true)
	path, err := ioutils.SafeJoin(d.settings.SaveDir, name+format.Extension())
	if err == nil {
		err = ioutils.WriteFile(path, []byte(creator.Create(entries)))
	}
	if err != nil {
		logctx.LoggerFromContext(ctx).Warn("playlist not written", "err", err)
		d.progress(LevelWarning, "Error creating playlist: %v", err)
		return
	}

	result.Playlist = path
	d.progress(LevelSuccess, "Created playlist %s", filepath.Base(path))
}

func baseName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "playlist"
	}
	return name
}
