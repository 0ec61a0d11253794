package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/handiism/netease-downloader/internal/audio"
	"github.com/handiism/netease-downloader/internal/config"
	"github.com/handiism/netease-downloader/internal/console"
	"github.com/handiism/netease-downloader/internal/download"
	ioutils "github.com/handiism/netease-downloader/internal/io"
	"github.com/handiism/netease-downloader/internal/model"
	"github.com/handiism/netease-downloader/internal/tui"
)

// app wires the downloader to the terminal.
type app struct {
	settings   *config.Settings
	downloader *download.Downloader
	tagger     *audio.Tagger
	printer    *console.Printer
	prompter   *console.Prompter

	yes   bool
	limit int

	// menu runs one round of the interactive menu.
	menu func(ctx context.Context, saveDir, status string) (tui.Selection, error)
}

func newApp(settings *config.Settings, opts *options, out io.Writer) *app {
	a := &app{
		settings: settings,
		tagger:   audio.NewTagger(),
		printer:  console.NewPrinter(out, opts.verbose),
		prompter: console.NewPrompter(),
		yes:      opts.yes,
		limit:    opts.limit,
		menu:     tui.Run,
	}

	a.downloader = download.NewDownloader(settings,
		download.WithProgress(a.printer.Event),
		download.WithTransferProgress(a.printer.Transfer),
		download.WithConfirm(a.prompter.ConfirmOverwrite),
		download.WithTagger(a.tagger),
	)

	return a
}

// dispatch runs the operation selected on the command line, or the menu.
func (a *app) dispatch(ctx context.Context, opts *options) error {
	switch {
	case opts.list:
		_, err := a.listFiles(ctx)
		return err
	case opts.clean:
		_, err := a.cleanTemp()
		return err
	case opts.file != "":
		_, err := a.downloadList(ctx, opts.file)
		return err
	case opts.api != "":
		_, err := a.downloadAPI(ctx, opts.api)
		return err
	case opts.search != "":
		_, err := a.search(ctx, opts.search)
		return err
	case opts.id != "":
		_, err := a.downloadSingle(ctx, model.TrackRef{ID: opts.id, Name: opts.name})
		return err
	default:
		return a.runMenu(ctx)
	}
}

func (a *app) runMenu(ctx context.Context) error {
	status := ""
	for {
		sel, err := a.menu(ctx, a.settings.SaveDir, status)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if sel.Action == tui.ActionExit {
			a.printer.Infof("Bye")
			return nil
		}

		status, err = a.perform(ctx, sel)
		if err != nil {
			return err
		}
	}
}

// perform runs a menu selection and returns a one-line summary for the next
// menu round.
func (a *app) perform(ctx context.Context, sel tui.Selection) (string, error) {
	switch sel.Action {
	case tui.ActionSingle:
		return a.downloadSingle(ctx, model.TrackRef{ID: sel.Value, Name: sel.Name})
	case tui.ActionFile:
		return a.downloadList(ctx, sel.Value)
	case tui.ActionAPI:
		return a.downloadAPI(ctx, sel.Value)
	case tui.ActionSearch:
		return a.search(ctx, sel.Value)
	case tui.ActionList:
		return a.listFiles(ctx)
	case tui.ActionClean:
		return a.cleanTemp()
	default:
		return "", nil
	}
}

// The operations below report failures on the console. They only return an
// error when the context was cancelled or the failure is not about a track.

func (a *app) downloadSingle(ctx context.Context, ref model.TrackRef) (string, error) {
	path, err := a.downloader.Download(ctx, ref)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return fmt.Sprintf("Track %s failed", ref.ID), nil
	}

	a.printer.Successf("Saved to %s", path)
	return fmt.Sprintf("Saved %s", path), nil
}

func (a *app) downloadList(ctx context.Context, path string) (string, error) {
	result, err := a.downloader.DownloadList(ctx, path)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return fmt.Sprintf("Could not read %s", path), nil
	}
	return batchStatus(result), nil
}

func (a *app) downloadAPI(ctx context.Context, url string) (string, error) {
	result, err := a.downloader.DownloadFromAPI(ctx, url)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return batchStatus(result), nil
}

func (a *app) search(ctx context.Context, keyword string) (string, error) {
	a.printer.Infof("Searching for %q", keyword)

	songs, err := a.downloader.Search(ctx, keyword, a.limit)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		a.printer.Errorf("Search failed: %v", err)
		return "Search failed", nil
	}
	if len(songs) == 0 {
		a.printer.Infof("No songs found")
		return "No songs found", nil
	}

	console.RenderSongs(a.printer.Writer(), songs)

	selected := songs
	if !a.yes {
		selected, err = a.prompter.SelectSongs(songs)
		if err != nil {
			a.printer.Errorf("Selection failed: %v", err)
			return "", nil
		}
	}
	if len(selected) == 0 {
		return "Nothing selected", nil
	}

	refs := make([]model.TrackRef, 0, len(selected))
	for i := range selected {
		refs = append(refs, selected[i].Ref())
	}

	result := a.downloader.DownloadRefs(ctx, refs)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return batchStatus(result), nil
}

func (a *app) listFiles(ctx context.Context) (string, error) {
	files, err := ioutils.ListAudioFiles(a.settings.SaveDir)
	if err != nil {
		a.printer.Errorf("Cannot list %s: %v", a.settings.SaveDir, err)
		return "", nil
	}
	if len(files) == 0 {
		a.printer.Infof("No downloaded files in %s", a.settings.SaveDir)
		return "No downloaded files", nil
	}

	if err := a.tagger.FillTags(ctx, files); err != nil {
		return "", err
	}

	var total int64
	for _, f := range files {
		total += f.Size
	}

	a.printer.Title(fmt.Sprintf("Downloaded files in %s", a.settings.SaveDir))
	console.RenderFiles(a.printer.Writer(), files)
	a.printer.Infof("%d files, %s", len(files), humanize.Bytes(uint64(total)))

	return fmt.Sprintf("%d downloaded files", len(files)), nil
}

func (a *app) cleanTemp() (string, error) {
	n, err := ioutils.CleanTempFiles(a.settings.SaveDir)
	if err != nil {
		a.printer.Errorf("Clean failed: %v", err)
		return "", nil
	}

	a.printer.Successf("Removed %d temporary files", n)
	return fmt.Sprintf("Removed %d temporary files", n), nil
}

func batchStatus(r *download.BatchResult) string {
	s := fmt.Sprintf("Last batch: %d/%d succeeded", r.Succeeded(), r.Attempted)
	if r.Playlist != "" {
		s += ", playlist " + r.Playlist
	}
	return s
}
