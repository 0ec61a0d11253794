// Package model defines the core data structures used throughout
// the netease-downloader application.
//
// # TrackRef
//
// TrackRef names a single track to download and an optional filename override:
//
//	ref := model.TrackRef{ID: "5257138"}
//	named := model.TrackRef{ID: "5257138", Name: "my song"}
//	fmt.Println(named.OverrideFileName()) // "my song.mp3"
//
// TrackRefs are created at the call site (command-line flag, interactive prompt,
// a line of a list file or an element of an API response) and are consumed once
// per download.
//
// # SongInfo
//
// SongInfo holds the metadata returned by the song detail and search endpoints.
// It is used for ID3 tagging and for displaying search results.
//
// # LocalFile
//
// LocalFile describes a finished download found in the save directory.
package model
