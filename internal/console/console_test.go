package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/handiism/netease-downloader/internal/download"
	"github.com/handiism/netease-downloader/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Event(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Event(download.ProgressEvent{Message: "hello", Level: download.LevelInfo})
	p.Event(download.ProgressEvent{Message: "hidden", Level: download.LevelVerbose})
	p.Event(download.ProgressEvent{Message: "boom", Level: download.LevelError})

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "hidden")
}

func TestPrinter_VerboseEvents(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	p.Event(download.ProgressEvent{Message: "details", Level: download.LevelVerbose})
	assert.Contains(t, buf.String(), "details")
}

func TestPrinter_Transfer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Transfer(download.TransferUpdate{Written: 512, Total: 1024})
	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "\rProgress: "))
	assert.Contains(t, line, "50.0%")
	assert.Contains(t, line, "(512 B/1.0 kB)")
	assert.NotContains(t, line, "\n")

	p.Event(download.ProgressEvent{Message: "next", Level: download.LevelInfo})
	assert.Contains(t, buf.String(), "kB)\n")
}

func TestPrinter_TransferDoneEndsLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Transfer(download.TransferUpdate{Written: 1024, Total: 1024})
	p.Transfer(download.TransferUpdate{Written: 1024, Total: 1024, Done: true})
	p.Transfer(download.TransferUpdate{Written: 1024, Total: 1024, Done: true})

	out := buf.String()
	assert.Contains(t, out, "100.0%")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestPrinter_UnknownTotalDrawsNothing(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Transfer(download.TransferUpdate{Written: 100, Total: -1})
	p.Transfer(download.TransferUpdate{Written: 100, Total: -1, Done: true})

	assert.Empty(t, buf.String())
}

func TestRenderFiles(t *testing.T) {
	var buf bytes.Buffer
	RenderFiles(&buf, []model.LocalFile{
		{Name: "a.mp3", Size: 2048, ModTime: time.Now(), Title: "Song A", Artist: "X"},
		{Name: "b.mp3", Size: 10},
	})

	out := buf.String()
	assert.Contains(t, out, "a.mp3")
	assert.Contains(t, out, "Song A")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "b.mp3")
}

func TestRenderSongs(t *testing.T) {
	var buf bytes.Buffer
	RenderSongs(&buf, []model.SongInfo{
		{ID: "1", Name: "A", Artists: []string{"X", "Y"}, Album: "Al", Duration: 125 * time.Second},
	})

	out := buf.String()
	assert.Contains(t, out, "X, Y")
	assert.Contains(t, out, "2:05")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "0:59", formatDuration(59*time.Second))
	assert.Equal(t, "4:29", formatDuration(269*time.Second))
}
