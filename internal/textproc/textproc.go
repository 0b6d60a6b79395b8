// Package textproc defines the text-processing capability exercised by the
// benchmark driver and provides its in-process implementation.
package textproc

import "context"

// Processor parses CSV text and joins word lists. Implementations may run in
// process or behind a process boundary; either way calls are synchronous.
type Processor interface {
	// ParseCSV parses CSV text and returns a human-readable table of its rows.
	ParseCSV(ctx context.Context, text string) (string, error)
	// JoinWords joins words, in order, into a single delimited string.
	JoinWords(ctx context.Context, words []string) (string, error)
}

const (
	// OpParseCSV names the CSV parsing operation in metrics and on the bridge.
	OpParseCSV = "parseCSV"
	// OpJoinWords names the word joining operation in metrics and on the bridge.
	OpJoinWords = "joinWords"
)
