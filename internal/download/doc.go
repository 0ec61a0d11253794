// Package download implements fetching tracks from the music service:
// the per-track retry loop, batch processing and best-effort metadata
// lookups.
//
// # Downloader
//
// Download runs a bounded retry loop for one track:
//
//  1. Probe the download URL with a HEAD request
//  2. 404 ends the loop at once; any other non-200 status is retried
//  3. Resolve the filename (override, Content-Disposition, synthesized)
//  4. Ask before overwriting an existing file
//  5. Stream the body to disk; a failed transfer leaves no file behind
//
// Attempts are separated by a fixed delay (settings.RetryDelay).
//
//	d := download.NewDownloader(settings,
//	    download.WithProgress(func(e download.ProgressEvent) { fmt.Println(e.Message) }),
//	    download.WithConfirm(func(path string) bool { return false }),
//	)
//	path, err := d.Download(ctx, model.TrackRef{ID: "5257138"})
//
// # Batches
//
// DownloadList and DownloadFromAPI feed track references to Download one at
// a time with a pause (settings.PaceDelay) after every item. A failing item
// never stops the batch.
//
// # Progress Tracking
//
// Status text is reported through ProgressEvent callbacks and transfer
// bytes through TransferUpdate callbacks; the package prints nothing itself.
package download
