package core

// warnlog.go renders the per-run warning report.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	logWidth           = 80
	logTimestampLayout = "15:04:05 - Mon January 02, 2006"
)

// WarningLogName returns the warning log file name for the given day.
func WarningLogName(now time.Time) string {
	return fmt.Sprintf("Export_warnings_%s.txt", now.Format(exportDateLayout))
}

// RenderWarningLog formats the ledger as a plain-text report: a banner with
// the program name and warning count, the timestamp, then one block per lot
// in LotSortKey order.
func RenderWarningLog(ledger *Ledger, programName string, now time.Time) string {
	var sb strings.Builder
	rule := strings.Repeat("#", logWidth)

	sb.WriteString(rule + "\n")
	sb.WriteString(center(programName, logWidth) + "\n")
	sb.WriteString(center("~ Warnings ~", logWidth) + "\n")
	sb.WriteString(center(fmt.Sprintf("(%d potential issues identified)", ledger.Count()), logWidth) + "\n")
	sb.WriteString(rule + "\n\n")
	sb.WriteString(now.Format(logTimestampLayout) + "\n\n")

	for _, lot := range ledger.SortedLots() {
		label := fmt.Sprintf("Lot %s  ", lot)
		if pad := logWidth - utf8.RuneCountInString(label); pad > 0 {
			label += strings.Repeat("-", pad)
		}
		sb.WriteString(label + "\n")
		for _, w := range ledger.Warnings(lot) {
			sb.WriteString("   > " + w + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeWarningLog renders the ledger into dir and returns the file path.
func writeWarningLog(dir string, ledger *Ledger, programName string, now time.Time) (string, error) {
	path := filepath.Join(dir, WarningLogName(now))
	if err := os.WriteFile(path, []byte(RenderWarningLog(ledger, programName, now)), 0o644); err != nil {
		return "", fmt.Errorf("write warning log: %w", err)
	}
	return path, nil
}

// center pads s with spaces to width, extra space going to the right.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
