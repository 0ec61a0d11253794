package tracklist

import (
	"errors"

	"github.com/handiism/netease-downloader/internal/model"
	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when an API response is not valid JSON.
var ErrMalformed = errors.New("malformed JSON response")

// Shape identifies which layout an API response had.
type Shape int

const (
	// ShapeUnknown is valid JSON in neither supported layout.
	ShapeUnknown Shape = iota

	// ShapeSongs is {"songs": [{"id": 1}, ...]}.
	ShapeSongs

	// ShapeBareIDs is [1, "2", ...].
	ShapeBareIDs

	// ShapeObjectKeys is {"1": ..., "2": ...} without a "songs" key.
	ShapeObjectKeys
)

func (s Shape) String() string {
	switch s {
	case ShapeSongs:
		return "songs"
	case ShapeBareIDs:
		return "bare-ids"
	case ShapeObjectKeys:
		return "object-keys"
	default:
		return "unknown"
	}
}

// Listing is the result of ParseAPIResponse.
type Listing struct {
	Shape Shape
	Refs  []model.TrackRef
}

// ParseAPIResponse extracts track references from a JSON API response.
func ParseAPIResponse(data []byte) (Listing, error) {
	if !gjson.ValidBytes(data) {
		return Listing{}, ErrMalformed
	}

	root := gjson.ParseBytes(data)

	songs := root.Get("songs")
	if root.IsObject() && songs.IsArray() {
		return Listing{Shape: ShapeSongs, Refs: songIDs(songs)}, nil
	}

	if root.IsArray() {
		return Listing{Shape: ShapeBareIDs, Refs: bareIDs(root)}, nil
	}

	if root.IsObject() && !songs.Exists() {
		return Listing{Shape: ShapeObjectKeys, Refs: keyIDs(root)}, nil
	}

	return Listing{Shape: ShapeUnknown}, nil
}

func songIDs(songs gjson.Result) []model.TrackRef {
	var refs []model.TrackRef
	songs.ForEach(func(_, song gjson.Result) bool {
		id := song.Get("id")
		if !id.Exists() || (id.Type != gjson.Number && id.Type != gjson.String) {
			return true
		}
		if s := id.String(); s != "" {
			refs = append(refs, model.TrackRef{ID: s})
		}
		return true
	})
	return refs
}

func bareIDs(arr gjson.Result) []model.TrackRef {
	var refs []model.TrackRef
	arr.ForEach(func(_, item gjson.Result) bool {
		if item.Type != gjson.Number && item.Type != gjson.String {
			return true
		}
		if s := item.String(); isDigits(s) {
			refs = append(refs, model.TrackRef{ID: s})
		}
		return true
	})
	return refs
}

func keyIDs(obj gjson.Result) []model.TrackRef {
	var refs []model.TrackRef
	obj.ForEach(func(key, _ gjson.Result) bool {
		if s := key.String(); isDigits(s) {
			refs = append(refs, model.TrackRef{ID: s})
		}
		return true
	})
	return refs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
