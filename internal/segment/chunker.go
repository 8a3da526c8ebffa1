package segment

import (
	"fmt"
	"strings"
)

// MaxFragments caps the number of fragments a single Chunk call may emit.
// Pathological input or configuration hits this ceiling instead of looping
// near-indefinitely.
const MaxFragments = 20000

// DefaultSeparators is the boundary priority list: paragraph break, sentence
// terminator, generic whitespace, bullet marker.
var DefaultSeparators = []string{"\n\n", ". ", " ", "•"}

// Chunk splits text into a sliding window of at most chunkSize characters,
// snapping each cut backward to the nearest preferred separator and carrying
// overlap characters into the next window. Every returned string is non-empty
// after trimming. A nil separators slice selects DefaultSeparators.
func Chunk(text string, chunkSize, overlap int, separators []string) ([]string, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunkSize=%d overlap=%d", ErrInvalidChunkConfig, chunkSize, overlap)
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}

	if len(text) <= chunkSize {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}, nil
		}
		return nil, nil
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}

		// Snap the cut backward to the rightmost separator inside the
		// window, first separator in priority order that matches wins.
		// The separator stays part of the emitted fragment. A window that
		// reaches document end is never snapped.
		if end < len(text) {
			for _, sep := range separators {
				if idx := strings.LastIndex(text[start:end], sep); idx > 0 {
					end = start + idx + len(sep)
					break
				}
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
			if len(chunks) > MaxFragments {
				return nil, fmt.Errorf("%w: exceeded %d fragments", ErrTooManyFragments, MaxFragments)
			}
		}

		// Progress guarantee: overlap step, then effective-window step, then
		// a single character as last resort.
		next := end - overlap
		if next <= start {
			next = start + (chunkSize - overlap)
		}
		if next <= start {
			next = start + 1
		}
		if next < 0 {
			next = 0
		}
		if next >= len(text) {
			break
		}
		start = next
	}

	return chunks, nil
}
