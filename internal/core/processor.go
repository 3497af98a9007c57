package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/lotexport/internal/logging"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Progress milestones. Targets share the band between targetsStart and
// targetsEnd equally.
const (
	progressLoaded       = 0.0
	progressDescriptions = 2.5
	targetsStart         = 5.0
	targetsEnd           = 90.0
	progressDone         = 100.0
)

// Processor runs the export pipeline for one source file at a time. The
// caller previews the source, binds headers, then calls Run. A Processor is
// not safe for concurrent use.
type Processor struct {
	targets  []TargetDefinition
	encoding SourceEncoding
	now      func() time.Time
	metrics  *Metrics
	opts     Options

	columns int
	schema  HeaderSchema
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithTargets replaces the registered targets. Targets run in the given order.
func WithTargets(defs ...TargetDefinition) ProcessorOption {
	return func(p *Processor) {
		p.targets = append([]TargetDefinition(nil), defs...)
	}
}

// WithEncoding sets the source file encoding. Defaults to Latin-1.
func WithEncoding(enc SourceEncoding) ProcessorOption {
	return func(p *Processor) {
		p.encoding = enc
	}
}

// WithClock overrides the time source used for file names and timestamps.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.now = now
	}
}

// WithMetrics records run activity in m.
func WithMetrics(m *Metrics) ProcessorOption {
	return func(p *Processor) {
		p.metrics = m
	}
}

// NewProcessor creates a Processor for every registered target.
func NewProcessor(opts Options, options ...ProcessorOption) *Processor {
	p := &Processor{
		targets:  All(),
		encoding: EncodingLatin1,
		now:      time.Now,
		opts:     opts,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// CheckSource verifies that path can be opened for reading.
func CheckSource(path string) error {
	if path == "" {
		return ErrNoSource
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	return f.Close()
}

// Preview returns the first n rows of the source and its column count. The
// column count is kept for BindHeaders and Run.
func (p *Processor) Preview(path string, n int) ([][]string, int, error) {
	if path == "" {
		return nil, 0, ErrNoSource
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	r, err := NewSourceReader(f, p.encoding)
	if err != nil {
		return nil, 0, err
	}

	rows, columns, err := ReadPreview(r, n)
	if err != nil {
		return nil, 0, err
	}

	p.columns = columns
	return rows, columns, nil
}

// ColumnCount returns the column count recorded by the last Preview.
func (p *Processor) ColumnCount() int {
	return p.columns
}

// BindHeaders assigns a canonical field to each source column. The number of
// names must equal the previewed column count.
func (p *Processor) BindHeaders(names []string) error {
	if len(names) != p.columns {
		return fmt.Errorf("%w (%d vs. %d)", ErrSchemaMismatch, len(names), p.columns)
	}
	schema, err := ParseHeaderSchema(names)
	if err != nil {
		return err
	}
	p.schema = schema
	return nil
}

// Headers returns the bound header schema.
func (p *Processor) Headers() HeaderSchema {
	return append(HeaderSchema(nil), p.schema...)
}

// CheckSettings reports whether the processor is ready to run: headers bound
// for every column, and boilerplate text supplied when boilerplate mode is on.
func (p *Processor) CheckSettings() error {
	if p.columns == 0 || len(p.schema) != p.columns {
		return fmt.Errorf("%w: headers not bound for all %d columns", ErrInvalidSettings, p.columns)
	}
	if p.opts.UseBoilerplateCondition && strings.TrimSpace(p.opts.BoilerplateCondition) == "" {
		return fmt.Errorf("%w: boilerplate condition text is empty", ErrInvalidSettings)
	}
	return nil
}

// progressReporter forwards only increasing values, capped at 100.
type progressReporter struct {
	fn   ProgressFunc
	last float64
}

func (r *progressReporter) report(v float64) {
	if v > progressDone {
		v = progressDone
	}
	if v <= r.last {
		return
	}
	r.last = v
	r.fn(v)
}

// Run loads src, exports every target into dest and writes the warning log
// when any warning was recorded.
//
// Structural problems (unreadable source, schema mismatch, incomplete
// description columns) are returned as errors before any file is written.
// Target-level failures are reported through onResult and recorded in the
// summary; a missing required column or malformed lot skips only that target,
// while a non-numeric value ends the run with no further output.
func (p *Processor) Run(ctx context.Context, src, dest string, onProgress ProgressFunc, onResult ResultFunc) (*RunSummary, error) {
	if onProgress == nil {
		onProgress = func(float64) {}
	}
	if onResult == nil {
		onResult = func(string) {}
	}

	runID := uuid.New().String()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.FromContext(ctx)
	start := p.now()

	if src == "" {
		return nil, ErrNoSource
	}
	if len(p.schema) == 0 || len(p.schema) != p.columns {
		return nil, fmt.Errorf("%w (%d vs. %d)", ErrSchemaMismatch, len(p.schema), p.columns)
	}
	if info, err := os.Stat(dest); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("destination %s is not a directory", dest)
	}

	prog := &progressReporter{fn: onProgress, last: -1}
	ledger := NewLedger()

	records, checksum, err := p.load(src, ledger)
	if err != nil {
		logger.Error("load failed", "source", src, "error", err)
		return nil, err
	}
	p.metrics.observeLoad(len(records))
	prog.report(progressLoaded)
	logger.Debug("source loaded", "records", len(records), "checksum", checksum)

	order, err := FixDescriptions(records, p.schema.Fields())
	if err != nil {
		logger.Error("description merge failed", "error", err)
		return nil, err
	}
	prog.report(progressDescriptions)
	prog.report(targetsStart)

	summary := &RunSummary{
		RunID:          runID,
		SourceChecksum: checksum,
		Records:        len(records),
	}

	now := p.now()
	ended := false
	band := (targetsEnd - targetsStart) / float64(max(len(p.targets), 1))

	for i, def := range p.targets {
		if ended {
			summary.Targets = append(summary.Targets, TargetResult{TargetKey: def.Info.Key, Status: StatusSkipped})
			p.metrics.observeTarget(def.Info.Key, StatusSkipped)
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		lo := targetsStart + band*float64(i)
		step := func(frac float64) { prog.report(lo + band*frac) }

		result, err := p.runTarget(ctx, def, records, order, ledger, dest, now, step)
		prog.report(lo + band)
		p.metrics.observeTarget(def.Info.Key, result.Status)
		summary.Targets = append(summary.Targets, result)

		if err != nil {
			te := &TargetError{Target: def.Info.Label, Err: err}
			if !IsTargetLevel(err) {
				logger.Error("export failed", "target", def.Info.Key, "error", err)
				return summary, te
			}
			logger.Warn("export aborted", "target", def.Info.Key, "error", err)
			onResult(te.Error())
			if errors.Is(err, ErrNonNumeric) {
				ended = true
			}
		}
	}
	prog.report(targetsEnd)

	summary.Warnings = ledger.Count()
	if !ended && !ledger.Empty() {
		path, err := writeWarningLog(dest, ledger, p.opts.ProgramName, now)
		if err != nil {
			logger.Error("warning log failed", "error", err)
			return summary, err
		}
		summary.WarningLog = path
		onResult(fmt.Sprintf("%d warnings generated; check log file", summary.Warnings))
	}

	prog.report(progressDone)
	elapsed := p.now().Sub(start)
	p.metrics.observeRun(summary.Warnings, elapsed)
	logger.Info("run complete",
		"records", summary.Records,
		"warnings", summary.Warnings,
		"duration", elapsed,
	)

	return summary, nil
}

// load reads the source into records while hashing the raw bytes.
func (p *Processor) load(path string, ledger *Ledger) ([]Record, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	h := xxhash.New()
	r, err := NewSourceReader(io.TeeReader(f, h), p.encoding)
	if err != nil {
		return nil, "", err
	}

	records, err := LoadRecords(r, p.schema, p.columns, ledger)
	if err != nil {
		return nil, "", err
	}

	return records, fmt.Sprintf("%016x", h.Sum64()), nil
}

// stage is one named step of a target export.
type stage struct {
	name string
	run  func() error
}

// runTarget exports one target over its own copy of records. step receives
// the fraction of stages completed.
func (p *Processor) runTarget(ctx context.Context, def TargetDefinition, records []Record, order []Field, ledger *Ledger, dest string, now time.Time, step func(float64)) (TargetResult, error) {
	logger := logging.WithFields(ctx, "target", def.Info.Key)
	result := TargetResult{TargetKey: def.Info.Key, Status: StatusFailed}
	b := newBatch(def, p.opts, ledger, records, order)

	stages := []stage{
		{"required columns", b.checkRequiredColumns},
		{"uppercase lots", func() error { b.uppercaseLots(); return nil }},
		{"numeric fields", func() error { return nonNumericError(b.checkNumericFields()) }},
		{"related columns", func() error { b.checkRelatedColumns(); return nil }},
		{"conditions", func() error { b.processConditions(); return nil }},
		{"starting bids", func() error { b.processStartBids(); return nil }},
		{"whitespace", func() error { b.formatWhitespace(); return nil }},
		{"heuristics", func() error {
			b.findErrors()
			if p.opts.CheckTitleQuantities {
				b.checkTitleQuantities()
			}
			return nil
		}},
	}
	if def.SplitLotExtension {
		stages = append(stages, stage{"lot extensions", b.splitLotExtensions})
	}
	if def.IntegerPrices {
		stages = append(stages, stage{"integer prices", func() error { b.convertPricesToInt(); return nil }})
	}
	stages = append(stages, stage{"write", func() error {
		path, err := b.write(dest, now)
		if err != nil {
			return err
		}
		result.Path = path
		return nil
	}})

	for i, s := range stages {
		if err := s.run(); err != nil {
			result.Error = err.Error()
			return result, err
		}
		logger.Debug("stage complete", "stage", s.name)
		step(float64(i+1) / float64(len(stages)))
	}

	result.Status = StatusExported
	result.Rows = len(b.records)
	logger.Info("export written", "path", result.Path, "rows", result.Rows)
	return result, nil
}

// nonNumericError summarizes numeric failures, or returns nil when there are
// none.
func nonNumericError(failures []NumericFailure) error {
	if len(failures) == 0 {
		return nil
	}
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = fmt.Sprintf("lot %s: %s", f.Lot, f.Field)
	}
	return fmt.Errorf("%w (%s); export aborted", ErrNonNumeric, strings.Join(parts, ", "))
}
