// Package http provides the transfer client used to talk to the music service.
//
// The Client in this package handles:
//   - A static browser-like header set (User-Agent, Accept, Referer)
//   - Header-only probes to check existence before a transfer
//   - File downloads with per-chunk progress callbacks
//   - Removal of partially written files when a transfer fails
//   - Small GET requests for JSON endpoints
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{
//	    Referer:      "https://music.163.com/",
//	    ProbeTimeout: 10 * time.Second,
//	    FetchTimeout: 30 * time.Second,
//	})
//
//	probe, err := client.Probe(ctx, url)
//	if err == nil && probe.Found() {
//	    n, err := client.DownloadFile(ctx, url, "downloads/song.mp3", http.Observer{
//	        OnProgress: func(written, total int64) { /* update UI */ },
//	    })
//	}
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
