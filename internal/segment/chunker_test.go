package segment

import (
	"errors"
	"strings"
	"testing"
)

// TestChunk_ShortInput tests that input at or under the chunk size is
// returned as a single fragment.
func TestChunk_ShortInput(t *testing.T) {
	chunks, err := Chunk("short text", 800, 200, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("Expected [\"short text\"], got %v", chunks)
	}
}

// TestChunk_WhitespaceInput tests that all-whitespace input yields no fragments.
func TestChunk_WhitespaceInput(t *testing.T) {
	chunks, err := Chunk("   \n\t  ", 800, 200, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Expected no fragments, got %v", chunks)
	}
}

// TestChunk_InvalidConfig tests precondition checks on size and overlap.
func TestChunk_InvalidConfig(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Chunk("some text that is long enough to matter", tc.chunkSize, tc.overlap, nil)
			if !errors.Is(err, ErrInvalidChunkConfig) {
				t.Errorf("Expected ErrInvalidChunkConfig, got %v", err)
			}
		})
	}
}

// TestChunk_SentenceBoundary tests the documented example: the first cut
// falls at the sentence boundary and the next fragment starts within the
// overlap distance before it.
func TestChunk_SentenceBoundary(t *testing.T) {
	text := "The quick brown fox. Jumps over the lazy dog."
	chunks, err := Chunk(text, 20, 5, []string{". "})
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected at least 2 fragments, got %v", chunks)
	}
	if chunks[0] != "The quick brown fox." {
		t.Errorf("First fragment: expected %q, got %q", "The quick brown fox.", chunks[0])
	}
	// Second fragment begins at offset 15 = 20 - overlap in the source.
	if !strings.HasPrefix(chunks[1], "fox") {
		t.Errorf("Second fragment should start inside the overlap region, got %q", chunks[1])
	}
}

// TestChunk_SeparatorPreference tests that a paragraph break beats a mid-word
// hard cut and lower-priority separators.
func TestChunk_SeparatorPreference(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph goes on for a while longer than the window"
	chunks, err := Chunk(text, 30, 0, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if chunks[0] != "first paragraph here" {
		t.Errorf("Expected cut at paragraph break, got first fragment %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "second") {
		t.Errorf("Second fragment should start at the next paragraph, got %q", chunks[1])
	}
}

// TestChunk_NoSeparatorHardCut tests that a window with no separator match
// keeps the hard boundary and still makes progress.
func TestChunk_NoSeparatorHardCut(t *testing.T) {
	text := strings.Repeat("x", 100)
	chunks, err := Chunk(text, 40, 10, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	for i, chunk := range chunks {
		if len(chunk) > 40 {
			t.Errorf("Fragment %d exceeds chunk size: %d chars", i, len(chunk))
		}
	}
	// All fragments together must cover the input's full length.
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if total < 100 {
		t.Errorf("Fragments cover %d chars, input has 100", total)
	}
}

// TestChunk_OverlapProperty tests that adjacent fragments share roughly the
// configured overlap of source text.
func TestChunk_OverlapProperty(t *testing.T) {
	text := strings.Repeat("abcdefghi. ", 40)
	chunks, err := Chunk(text, 100, 20, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple fragments, got %d", len(chunks))
	}
	for i := 0; i+1 < len(chunks); i++ {
		lead := chunks[i+1]
		if len(lead) > 8 {
			lead = lead[:8]
		}
		if !strings.Contains(chunks[i], lead) {
			t.Errorf("Fragment %d leading text %q not found in fragment %d tail", i+1, lead, i)
		}
	}
}

// TestChunk_ReconstructionNoOverlap tests that with zero overlap the
// fragments reproduce the original text up to whitespace at the cuts.
func TestChunk_ReconstructionNoOverlap(t *testing.T) {
	text := "aaa bbb ccc ddd eee fff"
	chunks, err := Chunk(text, 8, 0, []string{" "})
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if rebuilt := strings.Join(chunks, " "); rebuilt != text {
		t.Errorf("Reconstruction mismatch:\n  got  %q\n  want %q", rebuilt, text)
	}
}

// TestChunk_Termination tests the progress guarantee under a degenerate
// overlap close to the chunk size.
func TestChunk_Termination(t *testing.T) {
	text := strings.Repeat("y", 500)
	chunks, err := Chunk(text, 10, 9, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) == 0 {
		t.Error("Expected fragments from non-empty input")
	}
}

// TestChunk_SafetyCeiling tests that a configuration producing too many
// fragments fails instead of looping.
func TestChunk_SafetyCeiling(t *testing.T) {
	text := strings.Repeat("z", MaxFragments+100)
	_, err := Chunk(text, 2, 1, nil)
	if !errors.Is(err, ErrTooManyFragments) {
		t.Errorf("Expected ErrTooManyFragments, got %v", err)
	}
}

// TestChunk_TrimsFragments tests that emitted fragments carry no surrounding
// whitespace.
func TestChunk_TrimsFragments(t *testing.T) {
	text := "one sentence here. another sentence follows. and a third one to push past the window."
	chunks, err := Chunk(text, 25, 5, nil)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	for i, chunk := range chunks {
		if chunk != strings.TrimSpace(chunk) {
			t.Errorf("Fragment %d not trimmed: %q", i, chunk)
		}
		if chunk == "" {
			t.Errorf("Fragment %d is empty", i)
		}
	}
}
