package textproc

import (
	"context"
	"testing"
)

// BenchmarkNativeParseCSV measures one in-process parse of the sample table.
func BenchmarkNativeParseCSV(b *testing.B) {
	n := NewNative()
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		if _, err := n.ParseCSV(ctx, sampleCSV); err != nil {
			b.Fatalf("ParseCSV: %v", err)
		}
	}
}

// BenchmarkNativeJoinWords measures one in-process join of eleven words.
func BenchmarkNativeJoinWords(b *testing.B) {
	n := NewNative()
	ctx := context.Background()
	words := []string{"apple", "banana", "cherry", "date", "elderberry", "fig", "grape", "honeydew", "kiwi", "lemon", "mango"}
	for i := 0; i < b.N; i++ {
		if _, err := n.JoinWords(ctx, words); err != nil {
			b.Fatalf("JoinWords: %v", err)
		}
	}
}
