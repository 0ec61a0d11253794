package netease

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public host of the service.
const DefaultBaseURL = "https://music.163.com"

// URLBuilder produces endpoint URLs for a base host.
type URLBuilder struct {
	base string
}

// NewURLBuilder creates a URLBuilder. An empty base selects DefaultBaseURL.
func NewURLBuilder(base string) *URLBuilder {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &URLBuilder{base: base}
}

// Base returns the base host URL without a trailing slash.
func (b *URLBuilder) Base() string {
	return b.base
}

// Referer returns the Referer header value sent with every request.
func (b *URLBuilder) Referer() string {
	return b.base + "/"
}

// DownloadURL returns the direct-download URL of a track.
func (b *URLBuilder) DownloadURL(id string) string {
	return b.base + "/song/media/outer/url?id=" + id + ".mp3"
}

// DetailURL returns the metadata lookup URL of a track.
func (b *URLBuilder) DetailURL(id string) string {
	return b.base + "/api/song/detail/?ids=[" + id + "]"
}

// SearchURL returns the song search URL for a keyword.
func (b *URLBuilder) SearchURL(keyword string, limit int) string {
	q := url.Values{}
	q.Set("s", keyword)
	q.Set("type", "1")
	q.Set("offset", "0")
	q.Set("limit", fmt.Sprintf("%d", limit))
	return b.base + "/api/search/get/web?" + q.Encode()
}
