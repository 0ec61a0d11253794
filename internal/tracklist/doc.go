// Package tracklist turns batch inputs into track references.
//
// # List Files
//
// A list file has one entry per line, either an identifier or an
// identifier and a filename separated by the first comma. Blank lines and
// lines starting with '#' are skipped:
//
//	# favourites
//	5257138
//	186016,qing tian
//
// # API Responses
//
// ParseAPIResponse recognises three JSON shapes, tried in order:
//
//  1. ShapeSongs: an object with a "songs" array whose elements carry "id"
//  2. ShapeBareIDs: a top-level array; numbers and digit-only strings are identifiers
//  3. ShapeObjectKeys: an object without "songs"; digit-only keys are identifiers
//
// Any other valid JSON is ShapeUnknown with no references.
package tracklist
