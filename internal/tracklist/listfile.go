package tracklist

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/handiism/netease-downloader/internal/model"
)

const commentPrefix = "#"

// ReadFile parses the list file at path.
func ReadFile(path string) ([]model.TrackRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads list-file entries from r.
func Parse(r io.Reader) ([]model.TrackRef, error) {
	var refs []model.TrackRef

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ref, ok := ParseLine(scanner.Text()); ok {
			refs = append(refs, ref)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// ParseLine parses a single list-file line. ok is false for blank and
// comment lines.
func ParseLine(line string) (ref model.TrackRef, ok bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return model.TrackRef{}, false
	}

	id, name, _ := strings.Cut(line, ",")
	id = strings.TrimSpace(id)
	if id == "" {
		return model.TrackRef{}, false
	}

	return model.TrackRef{ID: id, Name: strings.TrimSpace(name)}, true
}
