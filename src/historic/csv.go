// Package historic ingests user-uploaded CSV level data and persists it as a
// single replace-on-upload dataset slot.
package historic

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

// ValidationError marks whole-file CSV problems the upload handler should
// surface to the user. Row-level problems are silent skips.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// rows older than this are dropped at parse time, not stored
const retentionDays = 5 * 365

// ParseCSV parses uploaded CSV text into points. The header must contain
// dateTime and value columns (exact, case-sensitive); all other columns are
// ignored. Returns the points in row order plus the number of skipped rows.
func ParseCSV(text string) ([]telemetry.Point, int, error) {
	return parseCSVAt(text, time.Now())
}

func parseCSVAt(text string, now time.Time) ([]telemetry.Point, int, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, 0, &ValidationError{msg: "CSV is empty or invalid"}
	}
	header := splitFields(lines[0])
	dtCol, valCol := -1, -1
	for i, h := range header {
		switch h {
		case "dateTime":
			dtCol = i
		case "value":
			valCol = i
		}
	}
	if dtCol < 0 || valCol < 0 {
		return nil, 0, &ValidationError{msg: "CSV must contain dateTime and value columns"}
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	points := make([]telemetry.Point, 0, len(lines)-1)
	skipped := 0
	for _, line := range lines[1:] {
		fields := splitFields(line)
		if dtCol >= len(fields) || valCol >= len(fields) {
			skipped++
			continue
		}
		dt := fields[dtCol]
		if dt == "" {
			skipped++
			continue
		}
		v, err := strconv.ParseFloat(fields[valCol], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			skipped++
			continue
		}
		ts, err := telemetry.ParseTime(dt)
		if err != nil || ts.Before(cutoff) {
			skipped++
			continue
		}
		points = append(points, telemetry.Point{DateTime: dt, Value: v})
	}
	return points, skipped, nil
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// splitFields splits a CSV line, stripping whitespace and optional
// double-quote wrapping from each field. The upload format never embeds
// commas inside quoted fields.
func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(f), `"`)
	}
	return fields
}
