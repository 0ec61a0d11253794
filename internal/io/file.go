package ioutils

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/handiism/netease-downloader/internal/model"
)

// TempExt is the suffix removed by CleanTempFiles.
const TempExt = ".tmp"

var (
	invalidChars     = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	repeatedSpaces   = regexp.MustCompile(`\s+`)
	errEmptyFileName = errors.New("empty file name")
)

// WriteFile writes data to path with mode 0644, truncating an existing file.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2.mp3") // Returns "Song_ Part 1_2.mp3"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// SafeJoin sanitizes name and joins it onto dir.
func SafeJoin(dir, name string) (string, error) {
	clean := SanitizeFileName(name)
	if clean == "" || clean == "." || clean == ".." {
		return "", errEmptyFileName
	}
	return filepath.Join(dir, clean), nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ListAudioFiles returns the *.mp3 files directly inside dir, sorted by name.
// A missing directory yields an empty list.
func ListAudioFiles(dir string) ([]model.LocalFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+model.AudioExt))
	if err != nil {
		return nil, err
	}

	files := make([]model.LocalFile, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, model.LocalFile{
			Name:    info.Name(),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// CleanTempFiles removes every *.tmp file directly inside dir and returns how
// many were deleted. Individual deletion failures are skipped.
func CleanTempFiles(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+TempExt))
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, path := range matches {
		if err := os.Remove(path); err == nil {
			cleaned++
		}
	}
	return cleaned, nil
}
