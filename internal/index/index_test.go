package index

import "testing"

func TestEntryContains(t *testing.T) {
	e := &Entry{Word: "cat", Documents: []string{"a.docx", "b.docx"}}

	if !e.Contains("a.docx") {
		t.Error("expected Contains to find a.docx")
	}
	if e.Contains("c.docx") {
		t.Error("did not expect Contains to find c.docx")
	}

	empty := &Entry{Word: "dog"}
	if empty.Contains("a.docx") {
		t.Error("empty entry should contain nothing")
	}
}

func TestChunk(t *testing.T) {
	mk := func(n int) []NewEntry {
		entries := make([]NewEntry, n)
		for i := range entries {
			entries[i] = NewEntry{Word: string(rune('a' + i%26)), Document: "doc"}
		}
		return entries
	}

	cases := []struct {
		name     string
		n        int
		size     int
		wantLens []int
	}{
		{"empty", 0, 25, nil},
		{"below size", 10, 25, []int{10}},
		{"exactly size", 25, 25, []int{25}},
		{"one over", 26, 25, []int{25, 1}},
		{"several chunks", 60, 25, []int{25, 25, 10}},
		{"zero size falls back", 30, 0, []int{25, 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := Chunk(mk(tc.n), tc.size)
			if len(chunks) != len(tc.wantLens) {
				t.Fatalf("expected %d chunks, got %d", len(tc.wantLens), len(chunks))
			}
			for i, want := range tc.wantLens {
				if len(chunks[i]) != want {
					t.Errorf("chunk %d: expected len %d, got %d", i, want, len(chunks[i]))
				}
			}
		})
	}
}
