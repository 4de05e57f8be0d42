package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
	"github.com/snplmntn/ainay-companion-care-sub003/logging"
)

// parseInteractions reads the interaction corpus TSV. One record per line:
//
//	name <TAB> reference <TAB> warning|warning|...
//
// Blank lines and # comments are skipped; so are lines without a name or with
// missing columns, counted and logged. Zero surviving records is an error, a
// truncated download must not become an empty but "successful" corpus.
func parseInteractions(r io.Reader) ([]entities.InteractionRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	var records []entities.InteractionRecord
	lineCount := 0
	skippedEmpty := 0
	skippedColumns := 0
	skippedName := 0

	for scanner.Scan() {
		lineCount++
		line := scanner.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			skippedEmpty++
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			skippedColumns++
			continue
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			skippedName++
			continue
		}
		records = append(records, entities.InteractionRecord{
			Name:         name,
			Reference:    strings.TrimSpace(fields[1]),
			Interactions: splitWarnings(fields[2]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("corpus is empty after parsing %d lines", lineCount)
	}
	if skipped := skippedColumns + skippedName; skipped > 0 {
		logging.Warn("Skipped malformed corpus lines",
			"total_lines", lineCount,
			"missing_columns", skippedColumns,
			"missing_name", skippedName)
	}
	return records, nil
}

// splitWarnings breaks the pipe-separated warning column into sentences,
// dropping empties so "a||b" cannot smuggle blank warnings into a record.
func splitWarnings(field string) []string {
	var out []string
	for _, part := range strings.Split(field, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePairs reads the drug-drug corpus TSV. One entry per line:
//
//	drugA <TAB> drugB <TAB> severity <TAB> mechanism <TAB> description
//
// The description column is optional. Unknown severity labels fall back to
// moderate inside ParseSeverity.
func parsePairs(r io.Reader) ([]entities.PairInteraction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	var pairs []entities.PairInteraction
	lineCount := 0
	skipped := 0

	for scanner.Scan() {
		lineCount++
		line := scanner.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			skipped++
			continue
		}
		drugA := strings.TrimSpace(fields[0])
		drugB := strings.TrimSpace(fields[1])
		if drugA == "" || drugB == "" {
			skipped++
			continue
		}
		description := ""
		if len(fields) > 4 {
			description = strings.TrimSpace(fields[4])
		}
		pairs = append(pairs, entities.PairInteraction{
			DrugA:       drugA,
			DrugB:       drugB,
			Severity:    entities.ParseSeverity(strings.ToLower(strings.TrimSpace(fields[2]))),
			Mechanism:   strings.TrimSpace(fields[3]),
			Description: description,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pair corpus: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("pair corpus is empty after parsing %d lines", lineCount)
	}
	if skipped > 0 {
		logging.Warn("Skipped malformed pair corpus lines", "total_lines", lineCount, "skipped", skipped)
	}
	return pairs, nil
}
