package model

import (
	"strings"
)

// AudioExt is the extension of every downloaded file.
const AudioExt = ".mp3"

// TrackRef identifies a track on the remote service.
//
// ID is an opaque token (numeric in practice) that is passed through to the
// download URL verbatim. Name is an optional user-supplied filename override;
// when empty, the filename is derived from the server response.
//
// Example:
//
//	ref := TrackRef{ID: "222", Name: "custom"}
//	ref.OverrideFileName() // "custom.mp3"
type TrackRef struct {
	// ID is the track identifier.
	ID string

	// Name is the filename override, with or without the .mp3 suffix.
	Name string
}

// HasOverride reports whether the reference carries a filename override.
func (r TrackRef) HasOverride() bool {
	return strings.TrimSpace(r.Name) != ""
}

// OverrideFileName returns the override with the .mp3 suffix enforced.
// It returns an empty string when no override is set.
func (r TrackRef) OverrideFileName() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ""
	}
	if !strings.HasSuffix(name, AudioExt) {
		name += AudioExt
	}
	return name
}

// FallbackFileName returns the synthesized name used when neither an override
// nor a Content-Disposition filename is available.
func (r TrackRef) FallbackFileName() string {
	return "netmusic_" + r.ID + AudioExt
}

// String returns the reference as it appears in a list file.
func (r TrackRef) String() string {
	if r.HasOverride() {
		return r.ID + "," + r.Name
	}
	return r.ID
}
