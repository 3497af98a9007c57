package core

import (
	"sort"
	"strconv"
	"unicode"
)

// FileLevelLot is the lot identifier used for diagnostics that concern the
// whole file rather than one row.
const FileLevelLot = "0"

// Ledger accumulates warnings per lot for one run. A message is stored at
// most once per lot; insertion order is preserved within a lot.
type Ledger struct {
	lots     map[string][]string
	seen     map[string]map[string]struct{}
	lotOrder []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		lots: make(map[string][]string),
		seen: make(map[string]map[string]struct{}),
	}
}

// Add records warning for lot. Returns false if the lot already carries it.
func (l *Ledger) Add(lot, warning string) bool {
	seen, ok := l.seen[lot]
	if !ok {
		seen = make(map[string]struct{})
		l.seen[lot] = seen
		l.lotOrder = append(l.lotOrder, lot)
	}
	if _, dup := seen[warning]; dup {
		return false
	}
	seen[warning] = struct{}{}
	l.lots[lot] = append(l.lots[lot], warning)
	return true
}

// addIf records warning for the record's lot when cond holds.
func (l *Ledger) addIf(cond bool, rec Record, warning string) {
	if cond {
		l.Add(rec.Lot(), warning)
	}
}

// Warnings returns the warnings recorded for lot, in insertion order.
func (l *Ledger) Warnings(lot string) []string {
	return append([]string(nil), l.lots[lot]...)
}

// Count returns the total number of warnings across all lots.
func (l *Ledger) Count() int {
	n := 0
	for _, w := range l.lots {
		n += len(w)
	}
	return n
}

// Empty reports whether no warnings were recorded.
func (l *Ledger) Empty() bool {
	return len(l.lotOrder) == 0
}

// SortedLots returns the lots ordered by LotSortKey. Lots with equal keys
// keep a deterministic order by identifier.
func (l *Ledger) SortedLots() []string {
	lots := append([]string(nil), l.lotOrder...)
	SortLots(lots)
	return lots
}

// SortLots orders lot identifiers in place by LotSortKey.
func SortLots(lots []string) {
	sort.SliceStable(lots, func(i, j int) bool {
		ki, kj := LotSortKey(lots[i]), LotSortKey(lots[j])
		if ki != kj {
			return ki < kj
		}
		return lots[i] < lots[j]
	})
}

// LotSortKey maps a lot identifier to a sortable value. Numeric lots sort by
// value; a numeric lot with one trailing letter sorts just after its number
// ("205A" between "205" and "206"); any other shape sorts first.
func LotSortKey(lot string) float64 {
	if isDigits(lot) {
		v, err := strconv.ParseFloat(lot, 64)
		if err == nil {
			return v
		}
	}

	runes := []rune(lot)
	if n := len(runes); n > 1 && unicode.IsLetter(runes[n-1]) && isDigits(string(runes[:n-1])) {
		v, err := strconv.ParseFloat(string(runes[:n-1]), 64)
		if err == nil {
			// Offset stays within (0, 1) for every rune.
			letter := unicode.ToUpper(runes[n-1])
			return v + float64(letter+1)/float64(unicode.MaxRune+2)
		}
	}

	return -1
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
