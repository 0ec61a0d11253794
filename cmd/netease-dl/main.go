package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/netease-downloader/internal/config"
	"github.com/handiism/netease-downloader/internal/logctx"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK          = 0
	exitConfig      = 1
	exitInterrupted = 130
)

var errInterrupted = errors.New("interrupted")

// options holds the parsed command line.
type options struct {
	id         string
	file       string
	output     string
	name       string
	list       bool
	clean      bool
	api        string
	search     string
	limit      int
	configPath string
	yes        bool
	tag        bool
	playlist   string
	verbose    bool
	retries    int

	// changed records which flags were given explicitly.
	changed map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("netease-dl", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{changed: make(map[string]bool)}
	fs.StringVarP(&opts.id, "id", "i", "", "Track ID to download")
	fs.StringVarP(&opts.file, "file", "f", "", "List file with one track per line (id or id,filename)")
	fs.StringVarP(&opts.output, "output", "o", "downloads", "Save directory")
	fs.StringVarP(&opts.name, "name", "n", "", "Filename for a single download (.mp3 is added)")
	fs.BoolVar(&opts.list, "list", false, "List downloaded files")
	fs.BoolVar(&opts.clean, "clean", false, "Remove temporary files from the save directory")
	fs.StringVarP(&opts.api, "api", "a", "", "URL of a JSON track list to download")
	fs.StringVarP(&opts.search, "search", "s", "", "Search songs by keyword")
	fs.IntVar(&opts.limit, "limit", 10, "Maximum number of search results")
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON config file")
	fs.BoolVarP(&opts.yes, "yes", "y", false, "Overwrite existing files and download all search results without asking")
	fs.BoolVar(&opts.tag, "tag", false, "Write ID3 tags from the song metadata")
	fs.StringVar(&opts.playlist, "playlist", "", "Write a playlist after batch downloads (m3u or pls)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	fs.IntVar(&opts.retries, "retries", 3, "Attempts per track")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "NetEase Music Downloader")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  netease-dl -i <id> [-n <name>]")
		fmt.Fprintln(stderr, "  netease-dl -f <list.txt>")
		fmt.Fprintln(stderr, "  netease-dl -a <url>")
		fmt.Fprintln(stderr, "  netease-dl -s <keyword>")
		fmt.Fprintln(stderr, "  netease-dl --list | --clean")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Without arguments an interactive menu is shown.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *pflag.Flag) { opts.changed[f.Name] = true })
	return opts, nil
}

// loadSettings layers defaults, the config file, the environment and flags.
func loadSettings(opts *options) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}

	if opts.changed["output"] {
		settings.SaveDir = opts.output
	}
	if opts.changed["retries"] {
		settings.MaxRetries = opts.retries
	}
	if opts.changed["playlist"] {
		settings.PlaylistFormat = opts.playlist
	}
	if opts.yes {
		settings.Overwrite = config.OverwriteAlways
	}
	if opts.tag {
		settings.WriteTags = true
	}
	if opts.verbose {
		settings.LogLevel = "DEBUG"
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	settings, err := loadSettings(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: settings.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(logctx.WithLogger(context.Background(), logger))
	defer cancel()

	a := newApp(settings, opts, os.Stdout)
	if err := a.downloader.EnsureSaveDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create %s: %v\n", settings.SaveDir, err)
		return exitConfig
	}

	logger.Debug("netease-dl starting", "save_dir", settings.SaveDir, "max_retries", settings.MaxRetries)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			a.printer.Errorf("Interrupted, cancelling...")
			return errInterrupted
		case <-ctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		defer cancel()
		return a.dispatch(ctx, opts)
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		logger.Error("fatal error", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitConfig
	}
	return exitOK
}
