package audio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/netease-downloader/internal/model"
)

// Tagger writes and reads ID3 tags of downloaded MP3 files.
//
// Tagger uses the id3v2 library to write:
//   - Title (TIT2), Artist (TPE1), Album (TALB)
//   - Length in milliseconds (TLEN)
//   - Cover art (APIC, front cover)
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.SaveTags("downloads/song.mp3", info, jpegBytes)
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// SaveTags writes song metadata into the file at path.
//
// Existing frames of the same kind are replaced; a file without a tag gets a
// new one. cover is embedded when not nil and must be JPEG data.
func (t *Tagger) SaveTags(path string, info *model.SongInfo, cover []byte) error {
	tag, err := openTag(path, id3v2.Options{Parse: true})
	if isShortFile(err) {
		return saveShortFile(path, info, cover)
	}
	if err != nil {
		return err
	}
	defer tag.Close()

	applyTags(tag, info, cover)
	return tag.Save()
}

// saveShortFile tags a file too small to hold a tag header. id3v2 refuses
// to open such files, so the tag is rendered in memory and written in
// front of the existing bytes.
func saveShortFile(path string, info *model.SongInfo, cover []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tag := id3v2.NewEmptyTag()
	applyTags(tag, info, cover)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return err
	}
	buf.Write(data)

	tmp := path + ".id3v2"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func applyTags(tag *id3v2.Tag, info *model.SongInfo, cover []byte) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(info.Name)
	tag.SetArtist(info.Artist())
	tag.SetAlbum(info.Album)
	if info.Duration > 0 {
		tag.AddTextFrame("TLEN", id3v2.EncodingUTF8, fmt.Sprintf("%d", info.Duration.Milliseconds()))
	}

	if cover != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}
}

// openTag is id3v2.Open that also closes the file when parsing fails.
func openTag(path string, opts id3v2.Options) (*id3v2.Tag, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	tag, err := id3v2.ParseReader(file, opts)
	if err != nil {
		file.Close()
		return nil, err
	}
	return tag, nil
}

// isShortFile reports whether err is id3v2 rejecting a file shorter than a
// tag header. The library wraps ErrSmallHeaderSize with %v, so errors.Is
// does not see it.
func isShortFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), id3v2.ErrSmallHeaderSize.Error())
}

// ReadTags returns the title and artist stored in the file's tag.
// Files without a tag yield empty strings.
func (t *Tagger) ReadTags(path string) (title, artist string, err error) {
	tag, err := openTag(path, id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Artist"},
	})
	if isShortFile(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	defer tag.Close()

	return tag.Title(), tag.Artist(), nil
}
