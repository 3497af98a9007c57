package core

// validation.go checks one target's batch of records.
//
// Validation happens at three levels:
//  1. Schema: required columns and co-requisite column pairs
//  2. Parsability: numeric fields must convert before any comparison runs
//  3. Heuristics: formatting and price sanity, reported as lot warnings
//
// Only the first two can abort an export. Heuristic findings are collected
// in the run's Ledger and never stop anything.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTitleLen    = 60
	minEstimate    = 10.0
	minEffectiveSB = 5.0
)

// checkRequiredColumns verifies that every required field is bound. A missing
// StartBid is accepted when every starting bid will be computed.
func (b *batch) checkRequiredColumns() error {
	for _, f := range b.target.Required {
		if b.has(f) {
			continue
		}
		if f == FieldStartBid && b.opts.computesAllStartBids() {
			continue
		}
		return fmt.Errorf("%w '%s'", ErrMissingRequired, f)
	}
	return nil
}

// numericRule describes one numeric field and whether a blank cell passes.
type numericRule struct {
	field      Field
	allowBlank bool
}

var numericRules = []numericRule{
	{field: FieldQty, allowBlank: true},
	{field: FieldLoEst},
	{field: FieldHiEst},
	{field: FieldStartBid, allowBlank: true},
	{field: FieldReserve, allowBlank: true},
}

// NumericFailure identifies one unparsable cell.
type NumericFailure struct {
	Lot   string
	Field Field
}

func (f NumericFailure) warning() string {
	return fmt.Sprintf("%s field not parsable as a number.", f.Field)
}

// checkNumericFields records a warning for every bound numeric cell that does
// not parse, and returns the failures. An empty result means every later
// numeric comparison is safe.
func (b *batch) checkNumericFields() []NumericFailure {
	var failures []NumericFailure

	for _, rec := range b.records {
		for _, rule := range numericRules {
			if !b.has(rule.field) {
				continue
			}
			v := rec[rule.field]
			if v.Blank() && rule.allowBlank {
				continue
			}
			if IsNumeric(v.String()) {
				continue
			}
			failure := NumericFailure{Lot: rec.Lot(), Field: rule.field}
			b.ledger.Add(failure.Lot, failure.warning())
			failures = append(failures, failure)
		}
	}

	return failures
}

// corequisite pairs a group of primary columns with the companion column that
// qualifies them.
type corequisite struct {
	primary      []Field
	companion    Field
	missingBoth  string // primary bound without companion
	missingPrime string // companion bound without primary
	missingValue string // per-lot: primary filled, companion blank
}

var corequisites = []corequisite{
	{
		primary:      []Field{FieldHeight, FieldWidth, FieldDepth},
		companion:    FieldDimUnit,
		missingBoth:  "H/W/D column(s) defined but co-requisite Dim[ension]Unit column is not.",
		missingPrime: "DimUnit column defined but co-requisite H/W/D column(s) are not.",
		missingValue: "Missing dimension unit.",
	},
	{
		primary:      []Field{FieldWeight},
		companion:    FieldWtUnit,
		missingBoth:  "Weight column defined but co-requisite W[eigh]tUnit column is not.",
		missingPrime: "WtUnit column defined but co-requisite Weight column is not.",
		missingValue: "Missing weight unit.",
	},
	{
		primary:      []Field{FieldConsignor},
		companion:    FieldRef,
		missingBoth:  "Consign# column defined but co-requisite Ref# column is not.",
		missingPrime: "Ref# column defined but co-requisite Consign# column is not.",
		missingValue: "Missing consignor lot reference number.",
	},
}

// checkRelatedColumns warns when only one side of a co-requisite pair is
// bound (file-level), and when a lot fills a primary value but leaves its
// companion blank.
func (b *batch) checkRelatedColumns() {
	for _, pair := range corequisites {
		var bound []Field
		for _, f := range pair.primary {
			if b.has(f) {
				bound = append(bound, f)
			}
		}

		switch {
		case len(bound) > 0 && !b.has(pair.companion):
			b.ledger.Add(FileLevelLot, pair.missingBoth)
		case len(bound) == 0 && b.has(pair.companion):
			b.ledger.Add(FileLevelLot, pair.missingPrime)
		case len(bound) > 0:
			for _, rec := range b.records {
				filled := false
				for _, f := range bound {
					if !rec[f].Blank() {
						filled = true
						break
					}
				}
				b.ledger.addIf(filled && rec[pair.companion].Blank(), rec, pair.missingValue)
			}
		}
	}
}

// findErrors flags textual and pricing problems that often point to data
// entry mistakes. Runs after whitespace normalization and after the numeric
// check has passed.
func (b *batch) findErrors() {
	hasLo, hasHi := b.has(FieldLoEst), b.has(FieldHiEst)

	for _, rec := range b.records {
		rec.ifPresent(FieldDesc, func(desc string) {
			b.ledger.addIf(strings.Contains(desc, "  "), rec, "Double space found.")
			b.checkText(rec, desc, "Description")
		})

		rec.ifPresent(FieldTitle, func(title string) {
			b.ledger.addIf(utf8.RuneCountInString(title) > maxTitleLen, rec,
				fmt.Sprintf("Title longer than %d characters.", maxTitleLen))
		})

		if hasLo && hasHi {
			lo, _ := ParseAmount(rec[FieldLoEst].String())
			hi, _ := ParseAmount(rec[FieldHiEst].String())

			b.ledger.addIf(lo >= hi, rec, "Low estimate greater than or equal to high estimate.")

			bid := lo / 2
			if explicit, ok := ParseAmount(rec[FieldStartBid].String()); ok {
				bid = explicit
			}
			b.ledger.addIf(lo < minEstimate || hi < minEstimate || bid < minEffectiveSB, rec,
				fmt.Sprintf("Lo/HiEst is below $%.0f or StartBid is below $%.0f.", minEstimate, minEffectiveSB))

			if bid, ok := ParseAmount(rec[FieldStartBid].String()); ok {
				b.ledger.addIf(bid > lo, rec, "StartBid greater than low estimate.")
				b.ledger.addIf(bid > hi, rec, "StartBid greater than high estimate.")
			}
		}

		if b.has(FieldCondition) {
			b.checkText(rec, rec[FieldCondition].String(), "Condition")
		}
	}
}

// checkText applies the shared rules for free-text fields.
func (b *batch) checkText(rec Record, text, label string) {
	b.ledger.addIf(!endsWithStop(text), rec,
		fmt.Sprintf("%s ends with a character other than '.' or ')'.", label))
	b.ledger.addIf(!isASCII(text), rec,
		fmt.Sprintf("%s contains non-ASCII character(s).", label))
	b.ledger.addIf(!isPrintable(text), rec,
		fmt.Sprintf("%s contains unprintable character(s).", label))
}

func endsWithStop(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, ")")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isPrintable(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) }) < 0
}

var (
	pairTitleRe    = regexp.MustCompile(`(?i)^pair\b`)
	parenQtyRe     = regexp.MustCompile(`\((\d+)\)`)
	spelledQtyRe   = regexp.MustCompile(`(?i)\b(two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b`)
	spelledNumbers = map[string]int{
		"two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
		"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	}
)

// checkTitleQuantities compares quantities stated in the title, as "(3)" or
// spelled-out numbers, with the Qty field. Titles that state no quantity are
// not compared.
func (b *batch) checkTitleQuantities() {
	if !b.has(FieldTitle) || !b.has(FieldQty) {
		return
	}

	for _, rec := range b.records {
		title := rec[FieldTitle].String()
		qty := rec[FieldQty].String()

		b.ledger.addIf(pairTitleRe.MatchString(title) && qty != "2", rec,
			"Title contains 'pair' but qty. is not 2.")

		total := 0
		for _, m := range parenQtyRe.FindAllStringSubmatch(title, -1) {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				total += n
			}
		}
		for _, m := range spelledQtyRe.FindAllString(title, -1) {
			total += spelledNumbers[strings.ToLower(m)]
		}
		if total == 0 {
			continue
		}

		n, ok := ParseAmount(qty)
		b.ledger.addIf(!ok || float64(total) != n, rec, "Possible mismatch between title & quantity.")
	}
}
