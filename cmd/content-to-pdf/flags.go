package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/PlanB-Network/content-to-pdf/internal/config"
)

// ErrUsage indicates invalid command line arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared by every command.
type commonFlags struct {
	config  string
	verbose bool
	workers int
	timeout string
}

// sourceFlags locate the local checkouts.
type sourceFlags struct {
	becPath    string
	blmsPath   string
	guidesPath string
}

// docFlags describe the documents to generate.
type docFlags struct {
	code          string
	lang          string // comma-separated
	output        string
	full          bool
	count         int
	answers       bool
	html          bool
	presenterName string
	presenterLogo string // image path
}

// serveFlags configure the HTTP service.
type serveFlags struct {
	port       int
	redisURL   string
	corsOrigin string
}

// cliFlags holds the flags of one command invocation.
type cliFlags struct {
	common commonFlags
	source sourceFlags
	doc    docFlags
	serve  serveFlags
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browser renderers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "PDF render timeout (e.g. 90s)")
}

func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.becPath, "bec-path", "", "content repository checkout")
	fs.StringVar(&f.blmsPath, "blms-path", "", "platform locales directory")
	fs.StringVar(&f.guidesPath, "guides-path", "", "teacher guides directory")
}

func addDocFlags(fs *flag.FlagSet, f *docFlags) {
	fs.StringVar(&f.code, "code", "", "course code (e.g. btc101)")
	fs.StringVar(&f.lang, "lang", "", "language codes, comma-separated (e.g. en,fr)")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.BoolVar(&f.html, "html", false, "also write the HTML document")
	fs.StringVar(&f.presenterName, "presenter-name", "", "presenter shown on the cover")
	fs.StringVar(&f.presenterLogo, "presenter-logo", "", "presenter logo image path")
}

func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	fs.IntVarP(&f.port, "port", "p", 0, "listen port")
	fs.StringVar(&f.redisURL, "redis-url", "", "Redis cache URL (empty = in-memory)")
	fs.StringVar(&f.corsOrigin, "cors-origin", "", "allowed browser origin")
}

// parseFlags parses the flags of command cmd. The returned FlagSet reports
// which flags were set explicitly.
func parseFlags(cmd string, args []string, stderr io.Writer) (*cliFlags, *flag.FlagSet, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCommandUsage(stderr, cmd) }

	addCommonFlags(fs, &f.common)
	switch cmd {
	case "course", "quiz", "guide":
		addSourceFlags(fs, &f.source)
		addDocFlags(fs, &f.doc)
	case "serve":
		addServeFlags(fs, &f.serve)
		fs.StringVar(&f.source.guidesPath, "guides-path", "", "teacher guides directory")
	}
	switch cmd {
	case "course":
		fs.BoolVar(&f.doc.full, "full", false, "keep links as resource cards")
	case "quiz":
		fs.IntVarP(&f.doc.count, "count", "n", 0, "random subset of questions (0 = all)")
		fs.BoolVar(&f.doc.answers, "answers", false, "append the answer key")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(fs.Args(), " "))
	}
	if f.common.workers < 0 {
		return nil, nil, fmt.Errorf("%w: --workers must not be negative", ErrUsage)
	}
	if f.doc.count < 0 {
		return nil, nil, fmt.Errorf("%w: --count must not be negative", ErrUsage)
	}
	return f, fs, nil
}

// mergeFlags applies explicitly set flags over cfg. CLI values win over
// the config file and the environment.
func mergeFlags(fs *flag.FlagSet, f *cliFlags, cfg *config.Config) {
	set := func(name string, apply func()) {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			apply()
		}
	}
	set("bec-path", func() { cfg.Local.BECPath = f.source.becPath })
	set("blms-path", func() { cfg.Local.LocalesPath = f.source.blmsPath })
	set("guides-path", func() {
		cfg.Local.GuidesPath = f.source.guidesPath
		cfg.Content.GuidesDir = f.source.guidesPath
	})
	set("output", func() { cfg.Output.Dir = f.doc.output })
	set("workers", func() { cfg.PDF.Workers = f.common.workers })
	set("timeout", func() { cfg.PDF.Timeout = f.common.timeout })
	set("port", func() { cfg.Server.Port = f.serve.port })
	set("redis-url", func() { cfg.Cache.RedisURL = f.serve.redisURL })
	set("cors-origin", func() { cfg.Server.CORSOrigin = f.serve.corsOrigin })
}

// languages splits the --lang value, dropping blanks and duplicates.
func languages(raw string) []string {
	var (
		out  []string
		seen = map[string]bool{}
	)
	for _, l := range strings.Split(raw, ",") {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
