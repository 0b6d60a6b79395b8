package textproc

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

const (
	// JoinDelimiter separates words in JoinWords output.
	JoinDelimiter = ", "
	// tableTitle heads every formatted CSV table.
	tableTitle = "📊 CSV Parsed (RFC 4180):"
	ruleWidth  = 45
	fieldSep   = " | "
)

// Native implements Processor in the current process.
type Native struct{}

// NewNative returns the in-process Processor.
func NewNative() *Native {
	return &Native{}
}

// ParseCSV parses text as RFC 4180 CSV and renders it with FormatTable.
func (n *Native) ParseCSV(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	records, err := ParseRecords(text)
	if err != nil {
		return "", err
	}
	return FormatTable(records), nil
}

// JoinWords joins words with JoinDelimiter.
func (n *Native) JoinWords(ctx context.Context, words []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.Join(words, JoinDelimiter), nil
}

// ParseRecords reads every record in text. Rows may have differing widths,
// blank lines are skipped and a quote inside an unquoted field is an error.
func ParseRecords(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

// FormatTable renders records with the first record treated as the header.
func FormatTable(records [][]string) string {
	rule := strings.Repeat("─", ruleWidth) + "\n"

	var b strings.Builder
	b.WriteString(tableTitle + "\n")
	b.WriteString(rule)
	if len(records) == 0 {
		b.WriteString("No data\n")
		return b.String()
	}
	for i, record := range records {
		if i == 0 {
			b.WriteString("Headers: ")
		} else {
			fmt.Fprintf(&b, "Row %d: ", i)
		}
		b.WriteString(strings.Join(record, fieldSep))
		b.WriteString("\n")
		if i == 0 {
			b.WriteString(rule)
		}
	}
	return b.String()
}
