// Package netease knows the URLs and response formats of the music service.
//
// # URL Builder
//
// URLBuilder maps a track identifier to the fixed-template endpoints:
//
//	b := netease.NewURLBuilder("")
//	b.DownloadURL("5257138") // https://music.163.com/song/media/outer/url?id=5257138.mp3
//	b.DetailURL("5257138")   // https://music.163.com/api/song/detail/?ids=[5257138]
//
// Identifiers are not validated; they are interpolated verbatim.
//
// # Responses
//
// ParseDetail and ParseSearch decode the JSON returned by the detail and
// search endpoints into model.SongInfo values. The wire structures live in
// the dto subpackage.
package netease
