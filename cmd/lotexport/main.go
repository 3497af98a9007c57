package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/lotexport/internal/config"
	"github.com/JonMunkholm/lotexport/internal/core"
	_ "github.com/JonMunkholm/lotexport/internal/core/targets" // Register all targets
	"github.com/JonMunkholm/lotexport/internal/logging"
	"github.com/JonMunkholm/lotexport/internal/tui"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	srcFlag := flag.String("src", "", "catalog CSV exported from the inventory tool")
	destFlag := flag.String("dest", "", "directory for export files and the warning log (default EXPORT_DEST_DIR)")
	profileFlag := flag.String("profile", "", "YAML profile with column assignments (default EXPORT_PROFILE)")
	previewFlag := flag.Int("preview", 0, "print the first N rows with column numbers and exit")
	plainFlag := flag.Bool("plain", false, "print plain progress lines instead of the terminal UI")
	flag.Parse()

	// Load .env file if it exists; variables already set take precedence
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return exitError
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	src := firstNonEmpty(*srcFlag, flag.Arg(0))
	if err := core.CheckSource(src); err != nil {
		return fail("source", err)
	}

	var profile *config.Profile
	if path := firstNonEmpty(*profileFlag, cfg.Source.Profile); path != "" {
		profile, err = config.LoadProfile(path)
		if err != nil {
			return fail("profile", err)
		}
		if err := profile.Apply(cfg); err != nil {
			return fail("profile", err)
		}
	}

	slog.Debug("configuration loaded", "config", cfg.String())

	enc, err := core.ParseSourceEncoding(cfg.Source.Encoding)
	if err != nil {
		return fail("encoding", err)
	}

	targets, err := selectTargets(cfg.Export.Targets)
	if err != nil {
		return fail("targets", err)
	}

	var metrics *core.Metrics
	if cfg.Metrics.Textfile != "" {
		metrics = core.NewMetrics()
	}

	proc := core.NewProcessor(exportOptions(cfg),
		core.WithEncoding(enc),
		core.WithTargets(targets...),
		core.WithMetrics(metrics),
	)

	rows := cfg.Source.PreviewRows
	if *previewFlag > 0 {
		rows = *previewFlag
	}
	preview, columns, err := proc.Preview(src, rows)
	if err != nil {
		return fail("preview", err)
	}

	if profile == nil {
		fmt.Print(tui.RenderPreview(preview, columns, nil))
		if *previewFlag > 0 {
			return 0
		}
		fmt.Fprintf(os.Stderr, "\nNo profile given: assign one field to each of the %d columns in a profile and pass it with -profile.\n", columns)
		return exitInput
	}

	if err := proc.BindHeaders(profile.Headers); err != nil {
		return fail("headers", err)
	}
	if *previewFlag > 0 {
		fmt.Print(tui.RenderPreview(preview, columns, proc.Headers()))
		return 0
	}
	if err := proc.CheckSettings(); err != nil {
		return fail("settings", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Export.Timeout)
	defer cancel()

	dest := firstNonEmpty(*destFlag, cfg.Export.DestDir)
	job := func(ctx context.Context, onProgress core.ProgressFunc, onResult core.ResultFunc) (*core.RunSummary, error) {
		return proc.Run(ctx, src, dest, onProgress, onResult)
	}

	var summary *core.RunSummary
	if *plainFlag {
		summary, err = runPlain(ctx, job)
	} else {
		restore, lerr := redirectLogs(cfg.Logging)
		if lerr != nil {
			return fail("log file", lerr)
		}
		summary, err = tui.Run(ctx, cfg.Export.ProgramName, job)
		restore()
	}

	if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		slog.Warn("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", werr)
	}

	if err != nil {
		return fail("run", err)
	}

	for _, t := range summary.Targets {
		if t.Status != core.StatusExported {
			return exitError
		}
	}
	return 0
}

// runPlain runs job printing results and progress at every tenth percent.
func runPlain(ctx context.Context, job tui.Job) (*core.RunSummary, error) {
	nextMark := 0.0
	summary, err := job(ctx,
		func(p float64) {
			if p >= nextMark {
				fmt.Printf("progress: %3.0f%%\n", p)
				for nextMark <= p {
					nextMark += 10
				}
			}
		},
		func(msg string) { fmt.Println(msg) },
	)
	if summary != nil {
		fmt.Print(tui.SummaryView(summary))
	}
	return summary, err
}

// redirectLogs moves log output off the terminal while the UI runs, into
// cfg.File when set. The returned func restores stderr logging.
func redirectLogs(cfg config.LoggingConfig) (func(), error) {
	var w io.Writer = io.Discard
	var f *os.File
	if cfg.File != "" {
		var err error
		f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	logging.SetupWriter(w, cfg.Level, cfg.Format)

	return func() {
		logging.Setup(cfg.Level, cfg.Format)
		if f != nil {
			f.Close()
		}
	}, nil
}

// selectTargets returns the registered targets named by keys, or all of them
// when keys is empty.
func selectTargets(keys []string) ([]core.TargetDefinition, error) {
	if len(keys) == 0 {
		return core.All(), nil
	}
	defs := make([]core.TargetDefinition, 0, len(keys))
	for _, key := range keys {
		def, ok := core.Get(key)
		if !ok {
			return nil, fmt.Errorf("unknown export target %q", key)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func exportOptions(cfg *config.Config) core.Options {
	return core.Options{
		UseBoilerplateCondition:   cfg.Export.BoilerplateEnabled,
		BoilerplateCondition:      cfg.Export.BoilerplateText,
		ComputeStartBids:          cfg.Export.ComputeStartBids,
		ComputeEmptyStartBidsOnly: cfg.Export.EmptyStartBidsOnly,
		CheckTitleQuantities:      cfg.Export.CheckTitleQuantities,
		ProgramName:               cfg.Export.ProgramName,
	}
}

// Exit codes.
const (
	exitError       = 1
	exitInput       = 2 // source or column assignment must be fixed
	exitInterrupted = 130
)

// fail logs err with its support code, prints the operator-facing message
// and returns the exit code.
func fail(stage string, err error) int {
	ue := core.NewUserError(err)
	slog.Error("export failed", "stage", stage, "code", ue.User.Code, "error", ue.Technical)
	if core.IsUserFacing(err) {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case core.IsStructural(err):
		return exitInput
	default:
		return exitError
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
