package download

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/netease-downloader/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "mylist.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDownloadList(t *testing.T) {
	svc, srv := newFakeService(t)
	s := testSettings(t, srv)
	s.PaceDelay = 1

	d, rec := newTestDownloader(s)
	var pauses []time.Duration
	d.sleep = func(_ context.Context, dur time.Duration) { pauses = append(pauses, dur) }

	result, err := d.DownloadList(context.Background(), writeList(t, "111\n#comment\n\n222,custom\n"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, []string{
		filepath.Join(s.SaveDir, "netmusic_111.mp3"),
		filepath.Join(s.SaveDir, "custom.mp3"),
	}, result.Saved)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, pauses)
	assert.Equal(t, 1, svc.headCount("111"))
	assert.Equal(t, 1, svc.headCount("222"))
	assert.True(t, rec.has(LevelSuccess, "succeeded: 2/2"))
}

func TestDownloadList_FailureDoesNotStopBatch(t *testing.T) {
	svc, srv := newFakeService(t)
	svc.status["404"] = http.StatusNotFound

	d, rec := newTestDownloader(testSettings(t, srv))
	pauses := 0
	d.sleep = func(context.Context, time.Duration) { pauses++ }

	result, err := d.DownloadList(context.Background(), writeList(t, "404\n111\n"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 1, result.Succeeded())
	assert.Equal(t, []model.TrackRef{{ID: "404"}}, result.Failed)
	assert.Equal(t, 2, pauses, "pacing follows every item")
	assert.True(t, rec.has(LevelWarning, "succeeded: 1/2"))
}

func TestDownloadList_MissingFile(t *testing.T) {
	_, srv := newFakeService(t)
	d, rec := newTestDownloader(testSettings(t, srv))

	result, err := d.DownloadList(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 0, result.Attempted)
	assert.True(t, rec.has(LevelError, "does not exist"))
}

func TestDownloadList_WritesPlaylist(t *testing.T) {
	_, srv := newFakeService(t)
	s := testSettings(t, srv)
	s.PlaylistFormat = "m3u"

	d, _ := newTestDownloader(s)
	result, err := d.DownloadList(context.Background(), writeList(t, "111\n222\n"))
	require.NoError(t, err)

	want := filepath.Join(s.SaveDir, "mylist.m3u")
	assert.Equal(t, want, result.Playlist)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "netmusic_111.mp3")
	assert.Contains(t, string(data), "netmusic_222.mp3")
}

func TestDownloadFromAPI(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "songs objects",
			body: `{"songs":[{"id":111,"name":"a"},{"id":222,"name":"b"}]}`,
			want: []string{"111", "222"},
		},
		{
			name: "bare ids",
			body: `["111", 222, "abc"]`,
			want: []string{"111", "222"},
		},
		{
			name: "numeric object keys",
			body: `{"111":{},"meta":{},"222":true}`,
			want: []string{"111", "222"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv := newFakeService(t)
			svc.list = tt.body

			d, _ := newTestDownloader(testSettings(t, srv))
			result, err := d.DownloadFromAPI(context.Background(), srv.URL+"/list")

			require.NoError(t, err)
			assert.Equal(t, len(tt.want), result.Attempted)
			for _, id := range tt.want {
				assert.Equal(t, 1, svc.getCount(id), "track %s", id)
			}
		})
	}
}

func TestDownloadFromAPI_EmptyOutcomes(t *testing.T) {
	tests := []struct {
		name string
		url  func(srvURL string) string
		body string
		msg  string
	}{
		{
			name: "malformed json",
			url:  func(u string) string { return u + "/list" },
			body: `{"songs": [`,
			msg:  "Failed to read track list",
		},
		{
			name: "no identifiers",
			url:  func(u string) string { return u + "/list" },
			body: `{"code":200}`,
			msg:  "No valid track IDs",
		},
		{
			name: "http error",
			url:  func(u string) string { return u + "/missing" },
			msg:  "Failed to fetch track list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv := newFakeService(t)
			svc.list = tt.body

			d, rec := newTestDownloader(testSettings(t, srv))
			result, err := d.DownloadFromAPI(context.Background(), tt.url(srv.URL))

			require.NoError(t, err)
			assert.Equal(t, 0, result.Attempted)
			assert.Empty(t, result.Saved)
			assert.True(t, rec.has(LevelError, tt.msg))
		})
	}
}

func TestDownloadRefs_StopsWhenCancelled(t *testing.T) {
	svc, srv := newFakeService(t)
	d, rec := newTestDownloader(testSettings(t, srv))

	ctx, cancel := context.WithCancel(context.Background())
	d.sleep = func(context.Context, time.Duration) { cancel() }

	result := d.DownloadRefs(ctx, []model.TrackRef{{ID: "111"}, {ID: "222"}, {ID: "333"}})

	assert.Equal(t, 1, result.Attempted)
	assert.Equal(t, 1, result.Succeeded())
	assert.Equal(t, 0, svc.headCount("222"))
	assert.True(t, rec.has(LevelWarning, "2 tracks not attempted"))
}
