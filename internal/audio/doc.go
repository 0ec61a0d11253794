// Package audio provides post-download processing of MP3 files: ID3
// tagging, tag reading for the local library listing, and playlist
// generation for batches.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger()
//	err := tagger.SaveTags(path, songInfo, coverJPEG)
//
// # Library
//
// FillTags reads the title and artist of many files concurrently:
//
//	files, _ := ioutils.ListAudioFiles("downloads")
//	_ = tagger.FillTags(ctx, files)
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.Create(entries)
//
// Supported formats: M3U (with optional extended info) and PLS.
package audio
