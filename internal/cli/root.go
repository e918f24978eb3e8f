// Package cli wires the autoindex command line: config, logging, crawl,
// selection and download.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"go-autoindex/internal/config"
	"go-autoindex/internal/download"
	httppkg "go-autoindex/internal/http"
	"go-autoindex/internal/model"
	"go-autoindex/internal/picker"
	"go-autoindex/internal/search"
	"go-autoindex/internal/service"
	"go-autoindex/internal/store"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitAborted = 130
)

// ExitError carries a process exit code out of the command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

type options struct {
	configPath          string
	match               string
	extensions          string
	concurrency         int
	downloadConcurrency int
	dest                string
	exclude             []string
	list                bool
	yes                 bool
	logLevel            string
}

// IO is the terminal the command runs against.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewRootCmd builds the autoindex command bound to the given streams.
func NewRootCmd(stdio IO) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "autoindex <baseURL> [contentQuery]",
		Short: "crawl an autoindex listing and download matching directories",
		Long: `autoindex - crawl a web server's directory listing
  - finds every subdirectory of <baseURL> and the media files inside
  - keeps directories whose name matches at least half the query words
  - lets you pick directories, then downloads them under --dest`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, stdio, opts, args)
		},
	}
	cmd.SetIn(stdio.In)
	cmd.SetOut(stdio.Out)
	cmd.SetErr(stdio.Err)

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (default "+config.DefaultPath()+")")
	f.StringVar(&opts.match, "match", "", "match the query against directory names (dir) or file URLs (file)")
	f.StringVar(&opts.extensions, "ext", "", "comma-separated file extensions to collect, e.g. .mp4,.mkv")
	f.IntVarP(&opts.concurrency, "concurrency", "c", 0, "parallel directory fetches")
	f.IntVar(&opts.downloadConcurrency, "download-concurrency", 0, "parallel downloads (1 downloads in order)")
	f.StringVarP(&opts.dest, "dest", "o", "", "destination root (default current directory)")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "basename globs to skip, e.g. '*sample*'")
	f.BoolVar(&opts.list, "list", false, "print the matches and exit")
	f.BoolVarP(&opts.yes, "yes", "y", false, "download every match without asking")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	return cmd
}

// Execute runs the command against the process terminal and returns the exit
// code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd(IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	return ExitCode(cmd.ExecuteContext(ctx), os.Stderr)
}

// ExitCode maps a command error to a process exit code, printing it to w.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil && exitErr.Code != ExitAborted {
			fmt.Fprintf(w, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return ExitFatal
}

func fatal(err error) error {
	return &ExitError{Code: ExitFatal, Err: err}
}

func run(cmd *cobra.Command, stdio IO, opts *options, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return fatal(err)
	}

	log := newLogger(stdio.Err, cfg.LogLevel)

	client, err := httppkg.NewClient(httppkg.ClientOptions{
		UserAgent:     cfg.HTTP.UserAgent,
		HeaderTimeout: cfg.HTTP.HeaderTimeout,
	})
	if err != nil {
		return fatal(err)
	}

	query := ""
	if len(args) > 1 {
		query = args[1]
	}

	crawler := service.NewCrawlService(store.NewJobStore(), client, log)
	job, matched, err := crawler.Run(ctx, model.CrawlInput{
		BaseURL:     args[0],
		Extensions:  cfg.Crawl.Extensions,
		Concurrency: cfg.Crawl.Concurrency,
		Query:       query,
		Mode:        cfg.Match.Mode,
		Exclude:     cfg.Match.Exclude,
	})
	if err != nil {
		return fatal(err)
	}
	writeCrawlSummary(stdio.Err, job, matched)

	var chosen model.MatchedSet
	switch {
	case opts.yes:
		chosen = matched
	case opts.list || query == "" || !interactive(stdio):
		picker.WriteList(stdio.Out, matched)
		return nil
	default:
		chosen, err = picker.Run(ctx, matched, stdio.In, stdio.Out)
		if errors.Is(err, picker.ErrAborted) {
			fmt.Fprintln(stdio.Err, "Aborted.")
			return &ExitError{Code: ExitAborted, Err: err}
		}
		if err != nil {
			return fatal(err)
		}
	}

	if chosen.FileCount() == 0 {
		fmt.Fprintln(stdio.Err, "Nothing to download.")
		return nil
	}

	dest := cfg.Download.Dest
	if dest == "" {
		if dest, err = os.Getwd(); err != nil {
			return fatal(err)
		}
	}

	tasks := store.NewTaskStore()
	downloader := download.NewService(client, tasks, log, download.Options{
		Concurrency: cfg.Download.Concurrency,
		ChunkSize:   cfg.Download.ChunkSize,
	})
	results := downloader.Download(ctx, chosen, dest)
	download.WriteReport(stdio.Err, results, tasks.Summary())
	return nil
}

func writeCrawlSummary(w io.Writer, job *model.CrawlJob, matched model.MatchedSet) {
	fmt.Fprintf(w, "Crawled %d directories (%d failed), %d matched with %d files.\n",
		job.DirectoriesCrawled, job.DirectoriesFailed, matched.Len(), matched.FileCount())
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("match") {
		mode, err := search.ParseMode(opts.match)
		if err != nil {
			return nil, fmt.Errorf("invalid options: %w", err)
		}
		cfg.Match.Mode = string(mode)
	}
	if f.Changed("ext") {
		cfg.Crawl.Extensions = config.SplitList(opts.extensions)
	}
	if f.Changed("concurrency") {
		cfg.Crawl.Concurrency = opts.concurrency
	}
	if f.Changed("download-concurrency") {
		cfg.Download.Concurrency = opts.downloadConcurrency
	}
	if f.Changed("dest") {
		cfg.Download.Dest = opts.dest
	}
	if f.Changed("exclude") {
		cfg.Match.Exclude = opts.exclude
	}
	if f.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// interactive reports whether both ends of stdio are terminals.
func interactive(stdio IO) bool {
	return isTerminal(stdio.In) && isTerminal(stdio.Out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
