package console

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/handiism/netease-downloader/internal/model"
	"github.com/olekukonko/tablewriter"
)

// RenderFiles writes the local audio files as a table.
func RenderFiles(w io.Writer, files []model.LocalFile) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "File", "Title", "Artist", "Size", "Modified"})
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for i, f := range files {
		table.Append([]string{
			strconv.Itoa(i + 1),
			f.Name,
			f.Title,
			f.Artist,
			humanize.Bytes(uint64(f.Size)),
			humanize.Time(f.ModTime),
		})
	}

	table.Render()
}

// RenderSongs writes search results as a table.
func RenderSongs(w io.Writer, songs []model.SongInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "Name", "Artist", "Album", "Length"})
	table.SetAutoWrapText(false)
	table.SetRowLine(false)

	for i := range songs {
		s := &songs[i]
		table.Append([]string{
			strconv.Itoa(i + 1),
			s.ID,
			s.Name,
			s.Artist(),
			s.Album,
			formatDuration(s.Duration),
		})
	}

	table.Render()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
