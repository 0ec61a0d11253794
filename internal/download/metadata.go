package download

import (
	"context"
	"errors"

	ioutils "github.com/handiism/netease-downloader/internal/io"
	"github.com/handiism/netease-downloader/internal/logctx"
	"github.com/handiism/netease-downloader/internal/model"
	"github.com/handiism/netease-downloader/internal/netease"
)

// SongInfo looks up the metadata of a track.
//
// A response without songs yields a *NotFoundError, an unparseable body a
// *MalformedResponseError and network failures a *TransientError.
func (d *Downloader) SongInfo(ctx context.Context, id string) (*model.SongInfo, error) {
	url := d.urls.DetailURL(id)

	body, err := d.client.Get(ctx, url, d.settings.MetadataTimeoutDuration())
	if err != nil {
		return nil, &TransientError{Op: "metadata", Err: err}
	}

	info, err := netease.ParseDetail(body)
	if errors.Is(err, netease.ErrNoSongs) {
		return nil, &NotFoundError{TrackID: id}
	}
	if err != nil {
		return nil, &MalformedResponseError{Source: url, Err: err}
	}

	if info.ID == "" {
		info.ID = id
	}
	return info, nil
}

// Search returns up to limit songs matching keyword.
func (d *Downloader) Search(ctx context.Context, keyword string, limit int) ([]model.SongInfo, error) {
	if limit <= 0 {
		limit = 10
	}
	url := d.urls.SearchURL(keyword, limit)

	body, err := d.client.Get(ctx, url, d.settings.APITimeoutDuration())
	if err != nil {
		return nil, &TransientError{Op: "search", Err: err}
	}

	songs, err := netease.ParseSearch(body)
	if err != nil {
		return nil, &MalformedResponseError{Source: url, Err: err}
	}
	if len(songs) > limit {
		songs = songs[:limit]
	}
	return songs, nil
}

// tagFile writes ID3 metadata into a finished download when enabled.
// Every failure here is reported as a warning; the download itself stands.
func (d *Downloader) tagFile(ctx context.Context, ref model.TrackRef, path string) {
	if !d.settings.WriteTags || d.tagger == nil {
		return
	}
	logger := logctx.LoggerFromContext(ctx)

	info, err := d.SongInfo(ctx, ref.ID)
	if err != nil {
		d.progress(LevelWarning, "Could not fetch metadata for %s: %v", ref.ID, err)
		return
	}

	var cover []byte
	if d.settings.EmbedCover && info.CoverURL != "" {
		cover, err = d.fetchCover(ctx, info.CoverURL)
		if err != nil {
			logger.Debug("cover art skipped", "url", info.CoverURL, "err", err)
			d.progress(LevelWarning, "Cover art skipped: %v", err)
			cover = nil
		}
	}

	if err := d.tagger.SaveTags(path, info, cover); err != nil {
		d.progress(LevelWarning, "Could not tag %s: %v", path, err)
		return
	}

	d.progress(LevelVerbose, "Tagged %s as %s", path, info.Title())
}

func (d *Downloader) fetchCover(ctx context.Context, url string) ([]byte, error) {
	raw, err := d.client.Get(ctx, url, d.settings.MetadataTimeoutDuration())
	if err != nil {
		return nil, err
	}
	return ioutils.PrepareCover(raw, d.settings.CoverMaxSize)
}
