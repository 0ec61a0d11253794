package audio

import (
	"context"

	"github.com/handiism/netease-downloader/internal/logctx"
	"github.com/handiism/netease-downloader/internal/model"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentTagReads = 8

// FillTags reads title and artist for every file in place. Files that cannot
// be read keep empty fields. Reads run concurrently, at most eight at a time.
func (t *Tagger) FillTags(ctx context.Context, files []model.LocalFile) error {
	logger := logctx.LoggerFromContext(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTagReads)

	for i := range files {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			title, artist, err := t.ReadTags(files[i].Path)
			if err != nil {
				logger.Debug("failed to read tags", "file", files[i].Path, "err", err)
				return nil
			}
			files[i].Title = title
			files[i].Artist = artist
			return nil
		})
	}

	return g.Wait()
}
