package dto

// DetailResponse is the body of /api/song/detail.
type DetailResponse struct {
	Songs []JSONSong `json:"songs"`
	Code  int        `json:"code"`
}

// SearchResponse is the body of /api/search/get/web.
type SearchResponse struct {
	Result *SearchResult `json:"result"`
	Code   int           `json:"code"`
}

// SearchResult holds the matched songs.
type SearchResult struct {
	Songs     []JSONSong `json:"songs"`
	SongCount int        `json:"songCount"`
}
