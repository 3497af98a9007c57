package core

// normalize.go holds the in-place record transformations applied to one
// target's copy of the catalog.

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// truncatedConditionLen is the length at which the source tool cuts off
// condition reports on export.
const truncatedConditionLen = 221

// minStartBid is the starting bid below which a bid counts as unset when only
// empty bids are computed.
const minStartBid = 5.0

var multiSpaceRe = regexp.MustCompile(` {2,}`)

// batch is one target's independent copy of the loaded records, together with
// the current field order. Presence of a field is a property of the order,
// not of individual records.
type batch struct {
	target  TargetDefinition
	opts    Options
	ledger  *Ledger
	records []Record
	order   []Field
}

func newBatch(target TargetDefinition, opts Options, ledger *Ledger, records []Record, order []Field) *batch {
	copied := make([]Record, len(records))
	for i, rec := range records {
		copied[i] = rec.Clone()
	}
	return &batch{
		target:  target,
		opts:    opts,
		ledger:  ledger,
		records: copied,
		order:   append([]Field(nil), order...),
	}
}

// has reports whether f is part of this batch's schema.
func (b *batch) has(f Field) bool {
	for _, o := range b.order {
		if o == f {
			return true
		}
	}
	return false
}

// insertAfter adds f to the order just after anchor, or at the end when
// anchor is absent. No-op if f is already present.
func (b *batch) insertAfter(anchor, f Field) {
	if b.has(f) {
		return
	}
	for i, o := range b.order {
		if o == anchor {
			b.order = append(b.order[:i+1], append([]Field{f}, b.order[i+1:]...)...)
			return
		}
	}
	b.order = append(b.order, f)
}

// uppercaseLots upper-cases and trims every lot identifier.
func (b *batch) uppercaseLots() {
	for _, rec := range b.records {
		rec.ifPresent(FieldLotNum, func(lot string) {
			rec[FieldLotNum] = Some(strings.ToUpper(strings.TrimSpace(lot)))
		})
	}
}

// processConditions substitutes the boilerplate condition report, or flags
// condition reports that were probably truncated by the source export.
func (b *batch) processConditions() {
	if !b.has(FieldCondition) {
		return
	}

	if b.opts.UseBoilerplateCondition {
		for _, rec := range b.records {
			rec[FieldCondition] = Some(b.opts.BoilerplateCondition)
		}
		return
	}

	for _, rec := range b.records {
		b.ledger.addIf(utf8.RuneCountInString(rec[FieldCondition].String()) == truncatedConditionLen,
			rec, "Condition has likely been cut off by the source export.")
	}
}

// processStartBids derives starting bids from half the low estimate, for
// every lot or only for lots with a blank or token bid.
func (b *batch) processStartBids() {
	if !b.opts.ComputeStartBids || !b.has(FieldLoEst) {
		return
	}

	onlyEmpty := b.opts.ComputeEmptyStartBidsOnly && b.has(FieldStartBid)

	for _, rec := range b.records {
		lo, ok := ParseAmount(rec[FieldLoEst].String())
		if !ok {
			continue
		}
		if onlyEmpty {
			bid := rec[FieldStartBid]
			amount, parsed := ParseAmount(bid.String())
			if !bid.Blank() && parsed && amount >= minStartBid {
				continue
			}
		}
		rec[FieldStartBid] = Some(FormatAmount(lo / 2))
	}

	b.insertAfter(FieldHiEst, FieldStartBid)
}

// formatWhitespace collapses runs of spaces and trims every field.
func (b *batch) formatWhitespace() {
	for _, rec := range b.records {
		for f, v := range rec {
			s, ok := v.Get()
			if !ok {
				continue
			}
			rec[f] = Some(strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " ")))
		}
	}
}

// splitLotExtensions separates a trailing letter from each lot number into
// FieldLotExt. A lot with letters anywhere else is recorded and aborts the
// target.
func (b *batch) splitLotExtensions() error {
	for _, rec := range b.records {
		num, ext, ok := SplitLot(rec.Lot())
		if !ok {
			b.ledger.Add(rec.Lot(), "Lot number contains non-terminating A-Z character(s).")
			return fmt.Errorf("%w %s", ErrMalformedLot, rec.Lot())
		}
		rec[FieldLotNum] = Some(num)
		rec[FieldLotExt] = Some(ext)
	}

	b.insertAfter(FieldLotNum, FieldLotExt)
	return nil
}

// SplitLot decomposes a lot identifier into its numeric part and an optional
// single-letter extension: "205" gives ("205", ""), "205a" gives ("205", "A").
// Returns false for any other shape.
func SplitLot(lot string) (num, ext string, ok bool) {
	if isDigits(lot) {
		return lot, "", true
	}

	runes := []rune(lot)
	n := len(runes)
	if n > 1 && unicode.IsLetter(runes[n-1]) && isDigits(string(runes[:n-1])) {
		return string(runes[:n-1]), strings.ToUpper(string(runes[n-1])), true
	}
	return "", "", false
}

// priceFields are truncated to whole units for targets with IntegerPrices.
var priceFields = []Field{FieldLoEst, FieldHiEst, FieldStartBid}

// convertPricesToInt truncates estimates and starting bids to integers.
// Blank cells stay blank.
func (b *batch) convertPricesToInt() {
	for _, f := range priceFields {
		if !b.has(f) {
			continue
		}
		for _, rec := range b.records {
			if rec[f].Blank() {
				continue
			}
			if whole, ok := TruncateAmount(rec[f].String()); ok {
				rec[f] = Some(whole)
			}
		}
	}
}
