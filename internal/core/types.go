package core

import "strings"

// Field is a canonical column name. Source columns are bound to fields by the
// operator before a run; derived fields are introduced by the pipeline.
type Field string

const (
	FieldLotNum    Field = "LotNum"
	FieldTitle     Field = "Title"
	FieldDesc1     Field = "Desc. 1"
	FieldDesc2     Field = "Desc. 2"
	FieldDesc3     Field = "Desc. 3"
	FieldDesc4     Field = "Desc. 4"
	FieldDesc5     Field = "Desc. 5"
	FieldLoEst     Field = "LoEst"
	FieldHiEst     Field = "HiEst"
	FieldStartBid  Field = "StartBid"
	FieldReserve   Field = "Reserve"
	FieldQty       Field = "Qty"
	FieldCondition Field = "Condition"
	FieldHeight    Field = "Height"
	FieldWidth     Field = "Width"
	FieldDepth     Field = "Depth"
	FieldDimUnit   Field = "DimUnit"
	FieldWeight    Field = "Weight"
	FieldWtUnit    Field = "WtUnit"
	FieldConsignor Field = "Consign#"
	FieldRef       Field = "Ref#"

	// Sentinels: the column is deliberately skipped, or was never assigned.
	FieldIgnore Field = "[Ignore]"
	FieldNone   Field = "[None]"

	// Derived by the pipeline, never bound to a source column.
	FieldDesc   Field = "Desc"
	FieldLotExt Field = "LotExt"
)

// descFragments are merged, in order, into FieldDesc.
var descFragments = []Field{FieldDesc1, FieldDesc2, FieldDesc3, FieldDesc4, FieldDesc5}

// IsSentinel reports whether f marks a column that carries no data.
func (f Field) IsSentinel() bool {
	return f == FieldIgnore || f == FieldNone
}

// FieldKind represents the expected data type for a canonical field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumeric
)

// FieldSpec describes one entry of the canonical catalogue.
type FieldSpec struct {
	Name  Field
	Kind  FieldKind
	Label string // Human-readable name used in diagnostics
}

// Catalogue lists every field a source column may be bound to, in the order
// the operator is offered them.
var Catalogue = []FieldSpec{
	{Name: FieldLotNum, Kind: KindText, Label: "Lot number"},
	{Name: FieldTitle, Kind: KindText, Label: "Title"},
	{Name: FieldDesc1, Kind: KindText, Label: "Description 1"},
	{Name: FieldDesc2, Kind: KindText, Label: "Description 2"},
	{Name: FieldDesc3, Kind: KindText, Label: "Description 3"},
	{Name: FieldDesc4, Kind: KindText, Label: "Description 4"},
	{Name: FieldDesc5, Kind: KindText, Label: "Description 5"},
	{Name: FieldLoEst, Kind: KindNumeric, Label: "Low estimate"},
	{Name: FieldHiEst, Kind: KindNumeric, Label: "High estimate"},
	{Name: FieldStartBid, Kind: KindNumeric, Label: "Starting bid"},
	{Name: FieldCondition, Kind: KindText, Label: "Condition"},
	{Name: FieldHeight, Kind: KindText, Label: "Height"},
	{Name: FieldWidth, Kind: KindText, Label: "Width"},
	{Name: FieldDepth, Kind: KindText, Label: "Depth"},
	{Name: FieldDimUnit, Kind: KindText, Label: "Dimension unit"},
	{Name: FieldWeight, Kind: KindText, Label: "Weight"},
	{Name: FieldWtUnit, Kind: KindText, Label: "Weight unit"},
	{Name: FieldReserve, Kind: KindNumeric, Label: "Reserve"},
	{Name: FieldQty, Kind: KindNumeric, Label: "Quantity"},
	{Name: FieldConsignor, Kind: KindText, Label: "Consignor"},
	{Name: FieldRef, Kind: KindText, Label: "Consignor reference"},
	{Name: FieldIgnore, Kind: KindText, Label: "Ignored column"},
	{Name: FieldNone, Kind: KindText, Label: "Unassigned column"},
}

// LookupField returns the catalogue entry for name. Matching ignores case and
// surrounding whitespace so hand-written profiles bind cleanly.
func LookupField(name string) (FieldSpec, bool) {
	name = strings.TrimSpace(name)
	for _, spec := range Catalogue {
		if strings.EqualFold(string(spec.Name), name) {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Value is an optional cell value. The zero Value is absent, which is not the
// same as a present, blank cell.
type Value struct {
	text    string
	present bool
}

// Some returns a present Value holding s.
func Some(s string) Value {
	return Value{text: s, present: true}
}

// Get returns the text and whether the value is present.
func (v Value) Get() (string, bool) {
	return v.text, v.present
}

// Present reports whether the field was assigned for this record.
func (v Value) Present() bool { return v.present }

// Blank reports whether the value is absent or present but empty.
func (v Value) Blank() bool { return !v.present || v.text == "" }

// String returns the text, or "" when absent.
func (v Value) String() string { return v.text }

// Record is one source row keyed by canonical field. Indexing a missing field
// yields an absent Value.
type Record map[Field]Value

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Lot returns the record's lot identifier, or "" if unassigned.
func (r Record) Lot() string {
	return r[FieldLotNum].String()
}

// ifPresent runs fn with the field's text only when the field is assigned.
func (r Record) ifPresent(f Field, fn func(string)) {
	if s, ok := r[f].Get(); ok {
		fn(s)
	}
}

// TargetInfo contains display information about an export target.
type TargetInfo struct {
	Key        string // Unique identifier: "invaluable"
	Label      string // Display name: "Invaluable"
	FilePrefix string // Output file prefix: "Invalu"
	Order      int    // Processing order within a run
}

// TargetDefinition contains everything needed to export one marketplace file.
type TargetDefinition struct {
	Info TargetInfo

	// Headers maps canonical fields to this target's column names. Fields
	// outside the map are not exported.
	Headers map[Field]string

	// Required lists fields every record must carry.
	Required []Field

	// SplitLotExtension decomposes "205A" into LotNum "205" and LotExt "A".
	SplitLotExtension bool

	// IntegerPrices truncates estimates and starting bids to whole units.
	IntegerPrices bool
}

// Column returns the exported column name for f.
// Returns false if the target does not export f.
func (t TargetDefinition) Column(f Field) (string, bool) {
	name, ok := t.Headers[f]
	return name, ok
}

// Options are the operator settings bound before a run.
type Options struct {
	// BoilerplateCondition replaces every record's condition when enabled.
	UseBoilerplateCondition bool
	BoilerplateCondition    string

	// ComputeStartBids sets starting bids to half the low estimate.
	ComputeStartBids bool
	// ComputeEmptyStartBidsOnly limits ComputeStartBids to blank or low bids.
	ComputeEmptyStartBidsOnly bool

	// CheckTitleQuantities compares quantities spelled out in titles with Qty.
	CheckTitleQuantities bool

	// ProgramName is printed in the warning log banner.
	ProgramName string
}

// computesAllStartBids reports whether every starting bid is derived, in
// which case a missing StartBid column is acceptable.
func (o Options) computesAllStartBids() bool {
	return o.ComputeStartBids && !o.ComputeEmptyStartBidsOnly
}

// ProgressFunc receives a monotonic percentage in [0, 100].
type ProgressFunc func(percent float64)

// ResultFunc receives human-readable status and error messages.
type ResultFunc func(message string)

// TargetStatus is the outcome of one target within a run.
type TargetStatus string

const (
	StatusExported TargetStatus = "exported"
	StatusFailed   TargetStatus = "failed"
	StatusSkipped  TargetStatus = "skipped"
)

// TargetResult describes what happened to one target.
type TargetResult struct {
	TargetKey string
	Status    TargetStatus
	Path      string // Output file, set when Status is StatusExported
	Rows      int
	Error     string
}

// RunSummary contains the final result of a run.
type RunSummary struct {
	RunID          string
	SourceChecksum string
	Records        int
	Targets        []TargetResult
	Warnings       int
	WarningLog     string // Empty when no warnings were recorded
}
