package core

import (
	"reflect"
	"strings"
	"testing"
)

// testTarget is a minimal target exporting the fields the tests use.
var testTarget = TargetDefinition{
	Info: TargetInfo{Key: "test", Label: "Test", FilePrefix: "Test"},
	Headers: map[Field]string{
		FieldLotNum:    "Lot",
		FieldLotExt:    "Ext",
		FieldTitle:     "Title",
		FieldDesc:      "Description",
		FieldLoEst:     "Low",
		FieldHiEst:     "High",
		FieldStartBid:  "Start",
		FieldCondition: "Condition",
	},
	Required: []Field{FieldLotNum, FieldTitle, FieldDesc},
}

func testBatch(opts Options, order []Field, records ...Record) *batch {
	return newBatch(testTarget, opts, NewLedger(), records, order)
}

func TestNewBatch_DeepCopies(t *testing.T) {
	src := []Record{{FieldLotNum: Some("1"), FieldTitle: Some("Vase")}}
	order := []Field{FieldLotNum, FieldTitle}

	b := newBatch(testTarget, Options{}, NewLedger(), src, order)
	b.records[0][FieldTitle] = Some("changed")
	b.insertAfter(FieldLotNum, FieldLotExt)

	if got := src[0][FieldTitle].String(); got != "Vase" {
		t.Errorf("source record mutated: Title = %q", got)
	}
	if len(order) != 2 {
		t.Errorf("source order mutated: %v", order)
	}
}

func TestInsertAfter(t *testing.T) {
	b := testBatch(Options{}, []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldTitle})

	b.insertAfter(FieldHiEst, FieldStartBid)
	b.insertAfter(FieldHiEst, FieldStartBid)
	b.insertAfter(FieldQty, FieldCondition)

	want := []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid, FieldTitle, FieldCondition}
	if !reflect.DeepEqual(b.order, want) {
		t.Errorf("order = %v, want %v", b.order, want)
	}
}

func TestUppercaseLots(t *testing.T) {
	b := testBatch(Options{}, []Field{FieldLotNum}, Record{FieldLotNum: Some(" 12b ")})
	b.uppercaseLots()
	if got := b.records[0].Lot(); got != "12B" {
		t.Errorf("Lot() = %q, want %q", got, "12B")
	}
}

func TestFormatWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Blue   glass vase.  ", "Blue glass vase."},
		{"already clean", "already clean"},
		{"", ""},
		{"a \t  b", "a \t b"},
	}

	for _, tt := range tests {
		b := testBatch(Options{}, []Field{FieldDesc}, Record{FieldDesc: Some(tt.input)})
		b.formatWhitespace()
		got := b.records[0][FieldDesc].String()
		if got != tt.want {
			t.Errorf("formatWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("formatWhitespace(%q) left a double space", tt.input)
		}
	}
}

func TestFormatWhitespace_KeepsAbsentFields(t *testing.T) {
	rec := Record{FieldTitle: Some(" x ")}
	b := testBatch(Options{}, []Field{FieldTitle}, rec)
	b.formatWhitespace()
	if b.records[0][FieldQty].Present() {
		t.Error("absent field became present")
	}
}

func TestProcessConditions_Boilerplate(t *testing.T) {
	opts := Options{UseBoilerplateCondition: true, BoilerplateCondition: "Sold as is."}
	b := testBatch(opts, []Field{FieldLotNum, FieldCondition},
		Record{FieldLotNum: Some("1"), FieldCondition: Some("Chip to rim.")},
		Record{FieldLotNum: Some("2"), FieldCondition: Some("")},
	)

	b.processConditions()

	for i, rec := range b.records {
		if got := rec[FieldCondition].String(); got != "Sold as is." {
			t.Errorf("records[%d].Condition = %q, want boilerplate", i, got)
		}
	}
}

func TestProcessConditions_BoilerplateNeedsColumn(t *testing.T) {
	opts := Options{UseBoilerplateCondition: true, BoilerplateCondition: "Sold as is."}
	b := testBatch(opts, []Field{FieldLotNum}, Record{FieldLotNum: Some("1")})

	b.processConditions()

	if b.records[0][FieldCondition].Present() {
		t.Error("condition written without a condition column")
	}
}

func TestProcessConditions_Truncated(t *testing.T) {
	b := testBatch(Options{}, []Field{FieldLotNum, FieldCondition},
		Record{FieldLotNum: Some("1"), FieldCondition: Some(strings.Repeat("x", truncatedConditionLen))},
		Record{FieldLotNum: Some("2"), FieldCondition: Some(strings.Repeat("x", truncatedConditionLen-1))},
	)

	b.processConditions()

	if got := b.ledger.Warnings("1"); len(got) != 1 {
		t.Errorf("Warnings(1) = %v, want truncation warning", got)
	}
	if got := b.ledger.Warnings("2"); len(got) != 0 {
		t.Errorf("Warnings(2) = %v, want none", got)
	}
}

func TestProcessStartBids(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		order     []Field
		startBid  Value
		wantBid   string
		wantOrder []Field
	}{
		{
			name:      "disabled leaves bid",
			opts:      Options{},
			order:     []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
			startBid:  Some("30"),
			wantBid:   "30",
			wantOrder: []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
		},
		{
			name:      "all bids computed",
			opts:      Options{ComputeStartBids: true},
			order:     []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
			startBid:  Some("30"),
			wantBid:   "50",
			wantOrder: []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
		},
		{
			name:      "computed column inserted after HiEst",
			opts:      Options{ComputeStartBids: true},
			order:     []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldTitle},
			wantBid:   "50",
			wantOrder: []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid, FieldTitle},
		},
		{
			name:      "empty only keeps real bid",
			opts:      Options{ComputeStartBids: true, ComputeEmptyStartBidsOnly: true},
			order:     []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
			startBid:  Some("30"),
			wantBid:   "30",
			wantOrder: []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
		},
		{
			name:      "empty only fills blank bid",
			opts:      Options{ComputeStartBids: true, ComputeEmptyStartBidsOnly: true},
			order:     []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
			startBid:  Some(""),
			wantBid:   "50",
			wantOrder: []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
		},
		{
			name:      "empty only replaces token bid",
			opts:      Options{ComputeStartBids: true, ComputeEmptyStartBidsOnly: true},
			order:     []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
			startBid:  Some("1"),
			wantBid:   "50",
			wantOrder: []Field{FieldLotNum, FieldLoEst, FieldHiEst, FieldStartBid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{FieldLotNum: Some("1"), FieldLoEst: Some("100"), FieldHiEst: Some("200")}
			if tt.startBid.Present() {
				rec[FieldStartBid] = tt.startBid
			}
			b := testBatch(tt.opts, tt.order, rec)

			b.processStartBids()

			if got := b.records[0][FieldStartBid].String(); got != tt.wantBid {
				t.Errorf("StartBid = %q, want %q", got, tt.wantBid)
			}
			if !reflect.DeepEqual(b.order, tt.wantOrder) {
				t.Errorf("order = %v, want %v", b.order, tt.wantOrder)
			}
		})
	}
}

func TestProcessStartBids_HalfCents(t *testing.T) {
	b := testBatch(Options{ComputeStartBids: true}, []Field{FieldLoEst, FieldHiEst},
		Record{FieldLotNum: Some("1"), FieldLoEst: Some("75"), FieldHiEst: Some("100")})
	b.processStartBids()
	if got := b.records[0][FieldStartBid].String(); got != "37.5" {
		t.Errorf("StartBid = %q, want %q", got, "37.5")
	}
}

func TestSplitLot(t *testing.T) {
	tests := []struct {
		lot     string
		wantNum string
		wantExt string
		wantOK  bool
	}{
		{"205", "205", "", true},
		{"205A", "205", "A", true},
		{"205a", "205", "A", true},
		{"20A5", "", "", false},
		{"A", "", "", false},
		{"205AB", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		num, ext, ok := SplitLot(tt.lot)
		if num != tt.wantNum || ext != tt.wantExt || ok != tt.wantOK {
			t.Errorf("SplitLot(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.lot, num, ext, ok, tt.wantNum, tt.wantExt, tt.wantOK)
		}
	}
}

func TestSplitLotExtensions(t *testing.T) {
	b := testBatch(Options{}, []Field{FieldLotNum, FieldTitle},
		Record{FieldLotNum: Some("205"), FieldTitle: Some("a")},
		Record{FieldLotNum: Some("205A"), FieldTitle: Some("b")},
	)

	if err := b.splitLotExtensions(); err != nil {
		t.Fatalf("splitLotExtensions() error = %v", err)
	}

	if got := b.records[1][FieldLotNum].String(); got != "205" {
		t.Errorf("records[1].LotNum = %q, want %q", got, "205")
	}
	if got := b.records[1][FieldLotExt].String(); got != "A" {
		t.Errorf("records[1].LotExt = %q, want %q", got, "A")
	}
	if v := b.records[0][FieldLotExt]; !v.Present() || v.String() != "" {
		t.Errorf("records[0].LotExt = %+v, want present and blank", v)
	}

	want := []Field{FieldLotNum, FieldLotExt, FieldTitle}
	if !reflect.DeepEqual(b.order, want) {
		t.Errorf("order = %v, want %v", b.order, want)
	}
}

func TestSplitLotExtensions_Malformed(t *testing.T) {
	b := testBatch(Options{}, []Field{FieldLotNum}, Record{FieldLotNum: Some("20A5")})

	err := b.splitLotExtensions()
	if err == nil || !strings.Contains(err.Error(), "20A5") {
		t.Fatalf("splitLotExtensions() error = %v, want malformed lot 20A5", err)
	}
	if got := b.ledger.Warnings("20A5"); len(got) != 1 {
		t.Errorf("Warnings(20A5) = %v, want one warning", got)
	}
}

func TestConvertPricesToInt(t *testing.T) {
	b := testBatch(Options{}, []Field{FieldLoEst, FieldHiEst, FieldStartBid},
		Record{FieldLoEst: Some("100.75"), FieldHiEst: Some("200"), FieldStartBid: Some("")})

	b.convertPricesToInt()

	rec := b.records[0]
	if got := rec[FieldLoEst].String(); got != "100" {
		t.Errorf("LoEst = %q, want %q", got, "100")
	}
	if got := rec[FieldHiEst].String(); got != "200" {
		t.Errorf("HiEst = %q, want %q", got, "200")
	}
	if got := rec[FieldStartBid].String(); got != "" {
		t.Errorf("StartBid = %q, want blank", got)
	}
}
