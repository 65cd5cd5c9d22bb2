package postgres

import (
	"strings"
	"testing"

	"github.com/femitubosun/codygo-task/internal/index"
)

func TestBuildInsertSingleRow(t *testing.T) {
	query, args := buildInsert([]index.NewEntry{{Word: "cat", Document: "a.docx"}})

	want := `INSERT INTO index_entries (word, documents) VALUES ($1, ARRAY[$2]) ON CONFLICT (word) DO NOTHING`
	if query != want {
		t.Errorf("query mismatch:\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 2 || args[0] != "cat" || args[1] != "a.docx" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildInsertMultiRow(t *testing.T) {
	query, args := buildInsert([]index.NewEntry{
		{Word: "cat", Document: "a.docx"},
		{Word: "dog", Document: "a.docx"},
		{Word: "fish", Document: "b.docx"},
	})

	if !strings.Contains(query, "($1, ARRAY[$2]), ($3, ARRAY[$4]), ($5, ARRAY[$6])") {
		t.Errorf("placeholders not numbered per row: %s", query)
	}
	if !strings.HasSuffix(query, "ON CONFLICT (word) DO NOTHING") {
		t.Errorf("missing conflict clause: %s", query)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
	if args[4] != "fish" || args[5] != "b.docx" {
		t.Errorf("args out of order: %v", args)
	}
}
