// Package export serializes result tables for download. Export always
// operates on the uncapped table attached to a result — the display cap
// applies to interactive rendering only.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"sales-agent/internal/core"
)

// Encode renders a result table as CSV bytes, header row first.
func Encode(t *core.Table) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("no table to export")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds a download filename from the originating question and a
// timestamp, e.g. "sales_data_top_5_brands_20260830_142501.csv".
func Filename(question string, now time.Time) string {
	slug := slugify(question, 30)
	stamp := now.Format("20060102_150405")
	if slug == "" {
		return fmt.Sprintf("sales_data_%s.csv", stamp)
	}
	return fmt.Sprintf("sales_data_%s_%s.csv", slug, stamp)
}

// slugify keeps alphanumerics, spaces, hyphens and underscores from the first
// maxLen characters, then joins words with underscores.
func slugify(s string, maxLen int) string {
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}
