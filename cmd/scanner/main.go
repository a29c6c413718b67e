package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/L1nMay/tcpscan/internal/config"
	"github.com/L1nMay/tcpscan/internal/logger"
	"github.com/L1nMay/tcpscan/internal/report"
	"github.com/L1nMay/tcpscan/internal/scan"
	"github.com/L1nMay/tcpscan/internal/services"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

const usageText = `Usage:
  scanner [flags] <IP> [start_port] [end_port] [concurrency]

Defaults: start_port=1 end_port=1024 concurrency=500

Examples:
  scanner 127.0.0.1
  scanner 127.0.0.1 1 10000 500
  scanner -json -timeout 1s ::1 1 1024

Flags:
`

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scanner", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to YAML config")
	timeout := fs.Duration("timeout", 0, "Per-probe connect timeout (default 500ms)")
	jsonOut := fs.Bool("json", false, "Print the finished report as JSON")
	sorted := fs.Bool("sorted", false, "Print open ports by port number once the scan ends")
	showClosed := fs.Bool("closed", false, "Also print closed/filtered ports")
	noProgress := fs.Bool("no-progress", false, "Disable the progress bar")
	verbose := fs.Bool("v", false, "Debug logging")
	fs.Usage = func() { printUsage(stderr, fs) }

	if wantsHelp(args) {
		printUsage(stdout, fs)
		return exitOK
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	pos := fs.Args()
	if len(pos) == 0 {
		printUsage(stdout, fs)
		return exitOK
	}
	if len(pos) > 4 {
		return fail(stderr, fmt.Errorf("too many arguments: %d", len(pos)))
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.LoadConfig(*configPath)
		if err != nil {
			return fail(stderr, fmt.Errorf("failed to load config: %w", err))
		}
		cfg = c
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return fail(stderr, fmt.Errorf("invalid log_level %q", cfg.LogLevel))
	}
	if *verbose {
		_ = logger.SetLevel("debug")
	}

	opts, err := buildOptions(cfg, pos, *timeout)
	if err != nil {
		return fail(stderr, err)
	}

	s, err := scan.NewScanner(opts)
	if err != nil {
		return fail(stderr, err)
	}

	var emitter report.Emitter
	if *jsonOut || cfg.Output == config.OutputJSON {
		emitter = report.NewJSONEmitter(stdout)
	} else {
		te := report.NewTextEmitter(stdout, *sorted || cfg.Sorted, *showClosed || cfg.ShowClosed)
		te.Header(opts.Target, opts.Range, opts.Concurrency)
		emitter = te
	}

	stopProgress := func() {}
	if !*noProgress && !cfg.NoProgress && isTerminal(stderr) {
		stopProgress = startProgress(s, stderr)
	}

	stopSignals := cancelOnSignal(s)
	rep, runErr := s.Run(ctx, emitter.Result)
	stopSignals()
	stopProgress()

	if err := emitter.Finish(rep); err != nil {
		logger.Errorf("failed to write report: %v", err)
		return exitFailure
	}
	if runErr != nil {
		logger.Infof("scan %s stopped early: %v", rep.ID, runErr)
		return exitCancelled
	}
	return exitOK
}

// buildOptions resolves positional arguments over config values.
func buildOptions(cfg *config.Config, pos []string, timeout time.Duration) (scan.Options, error) {
	target, err := scan.ParseTarget(pos[0])
	if err != nil {
		return scan.Options{}, err
	}

	rng, err := scan.ParseRangeArgs(argAt(pos, 1), argAt(pos, 2), cfg.StartPort, cfg.EndPort)
	if err != nil {
		return scan.Options{}, err
	}

	concurrency := cfg.Concurrency
	if s := argAt(pos, 3); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return scan.Options{}, fmt.Errorf("%w: %q is not a number", scan.ErrInvalidConcurrency, s)
		}
		concurrency = n
	}
	if err := scan.ValidateConcurrency(concurrency); err != nil {
		return scan.Options{}, err
	}

	t := cfg.Timeout()
	if timeout != 0 {
		t = timeout
	}
	if t <= 0 {
		return scan.Options{}, fmt.Errorf("invalid timeout %s: must be positive", t)
	}

	return scan.Options{
		Target:      target,
		Range:       rng,
		Concurrency: concurrency,
		Timeout:     t,
		Services:    services.New(cfg.Services),
	}, nil
}

func argAt(pos []string, i int) string {
	if i < len(pos) {
		return pos[i]
	}
	return ""
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "-help" {
			return true
		}
	}
	return false
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprint(w, usageText)
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitUsage
}

// cancelOnSignal stops dispatch on SIGINT/SIGTERM; in-flight probes finish
// and the partial report is still printed.
func cancelOnSignal(s *scan.Scanner) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sigs:
				s.CancelRunning()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func startProgress(s *scan.Scanner, w io.Writer) func() {
	ch := s.Subscribe()
	bar := report.NewProgressBar(w)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		bar.Run(ch)
	}()

	return func() {
		s.Unsubscribe(ch)
		<-finished
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.ProgressEnabled(f)
}
