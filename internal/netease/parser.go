package netease

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/handiism/netease-downloader/internal/model"
	"github.com/handiism/netease-downloader/internal/netease/dto"
)

// ErrNoSongs is returned when a detail response lists no songs.
var ErrNoSongs = errors.New("response contains no songs")

// ParseDetail decodes a song detail response and returns its first song.
func ParseDetail(data []byte) (*model.SongInfo, error) {
	var resp dto.DetailResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse detail JSON: %w", err)
	}
	if len(resp.Songs) == 0 {
		return nil, ErrNoSongs
	}
	return resp.Songs[0].ToSongInfo(), nil
}

// ParseSearch decodes a search response. A response without results yields
// an empty slice and no error.
func ParseSearch(data []byte) ([]model.SongInfo, error) {
	var resp dto.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %w", err)
	}
	if resp.Result == nil {
		return nil, nil
	}

	songs := make([]model.SongInfo, 0, len(resp.Result.Songs))
	for _, s := range resp.Result.Songs {
		songs = append(songs, *s.ToSongInfo())
	}
	return songs, nil
}
