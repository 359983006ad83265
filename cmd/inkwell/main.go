// Package main is the entry point for the inkwell layout tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/inkwell/internal/app"
	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/backend"
	"github.com/dshills/inkwell/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	file        string
	scriptPath  string
	configPath  string
	logLevel    string
	width       int
	height      int
	preview     bool
	readOnly    bool
	printConfig bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, code, done := parseFlags(os.Args[1:], os.Stdout, os.Stderr)
	if done {
		return code
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.printConfig {
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	closeLog, err := initLogger(cfg, opts.preview)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	config.WarnUnknownEnv(os.Environ())

	application, err := app.New(app.Options{File: opts.file, Config: cfg, ReadOnly: opts.readOnly})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	if opts.scriptPath != "" {
		if err := applyScript(application, opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.preview {
		return runPreview(application)
	}

	out, err := script.Dump(application.Document())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// parseFlags returns the options, or done with an exit code for -help,
// -version and flag errors.
func parseFlags(args []string, stdout, stderr io.Writer) (opts options, code int, done bool) {
	fs := flag.NewFlagSet("inkwell", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var showVersion bool
	fs.StringVar(&opts.file, "file", "", "Text file to load")
	fs.StringVar(&opts.file, "f", "", "Text file to load (shorthand)")
	fs.StringVar(&opts.scriptPath, "script", "", "JSON edit script to apply")
	fs.StringVar(&opts.scriptPath, "s", "", "JSON edit script to apply (shorthand)")
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.IntVar(&opts.width, "width", 0, "Layout width in pixels")
	fs.IntVar(&opts.height, "height", 0, "Layout height in pixels")
	fs.BoolVar(&opts.preview, "preview", false, "Show an interactive terminal preview")
	fs.BoolVar(&opts.preview, "p", false, "Show an interactive terminal preview (shorthand)")
	fs.BoolVar(&opts.readOnly, "readonly", false, "Reject edits")
	fs.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "inkwell - styled text layout engine\n\n")
		fmt.Fprintf(stderr, "Usage: inkwell [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  inkwell -f notes.txt              Dump the layout of a file as JSON\n")
		fmt.Fprintf(stderr, "  inkwell -f notes.txt -s edits.json  Apply edits, then dump\n")
		fmt.Fprintf(stderr, "  inkwell -p -f notes.txt           Edit in the terminal preview\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, true
		}
		return opts, 2, true
	}

	if showVersion {
		fmt.Fprintf(stdout, "inkwell %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, true
	}

	if opts.logLevel != "" {
		if _, ok := logger.ParseLevel(opts.logLevel); !ok {
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			return opts, 1, true
		}
	}

	if opts.file == "" && fs.NArg() > 0 {
		opts.file = fs.Arg(0)
	}
	return opts, 0, false
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Logger.Level = opts.logLevel
	}
	if opts.width > 0 {
		cfg.Layout.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Layout.Height = opts.height
	}
	return cfg, nil
}

// initLogger routes logs to the configured file. The preview owns the
// terminal, so without a file its logs are dropped.
func initLogger(cfg *config.Config, preview bool) (func(), error) {
	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case cfg.Logger.File != "":
		f, err := os.OpenFile(cfg.Logger.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case preview:
		out = io.Discard
	}
	logger.Init(cfg.LogLevel(), out)
	return closeFn, nil
}

func applyScript(application *app.Application, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	s, err := script.Parse(data)
	if err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	d := application.Document()
	if s.HasText {
		if err := d.Load(strings.NewReader(s.Text)); err != nil {
			return err
		}
	}
	s.Resize(d)
	if err := s.Apply(d); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	logger.Infof("applied %d ops from %s", len(s.Ops), path)
	return nil
}

func runPreview(application *app.Application) int {
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Infof("preview closed: %s", application.Status())
	return 0
}
