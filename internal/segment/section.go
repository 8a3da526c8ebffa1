// Package segment splits documents into section-tagged, overlapping
// fragments sized for embedding and retrieval.
package segment

import (
	"errors"
	"regexp"
	"strings"
)

// FallbackSectionTitle labels fragments from documents with no detectable
// section structure.
const FallbackSectionTitle = "Document Content"

var (
	// ErrInvalidChunkConfig indicates a chunk size / overlap combination that
	// cannot produce a valid window.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")
	// ErrTooManyFragments indicates the fragment safety ceiling was hit.
	ErrTooManyFragments = errors.New("too many fragments generated (safety limit reached)")
)

// Section is a detected heading: its trimmed label and the character offset
// where it starts in the document.
type Section struct {
	Title string
	Start int
}

// Fragment is the unit of retrieval: a bounded substring of a document
// tagged with the title of the section it came from.
type Fragment struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

// headingPattern matches numbered, capitalized headings anchored to line
// start, e.g. "3.1 Compute Services" or "2. Storage Accounts".
var headingPattern = regexp.MustCompile(`(?m)^[ \t]*\d+(?:\.\d+)*\.?[ \t]+[A-Z][\w &-]*`)

// Detect scans the document for heading-like lines and returns their labels
// and offsets in encounter order. An empty result means no structure was
// found; callers fall back to paragraph segmentation.
func Detect(document string) []Section {
	matches := headingPattern.FindAllStringIndex(document, -1)
	sections := make([]Section, 0, len(matches))
	for _, m := range matches {
		sections = append(sections, Section{
			Title: strings.TrimSpace(document[m[0]:m[1]]),
			Start: m[0],
		})
	}
	return sections
}

// paragraphSections treats each blank-line-delimited paragraph as a section
// under the fallback title, so no content is ever left unchunked.
func paragraphSections(document string) []Section {
	var sections []Section
	inParagraph := false
	lineStart := 0
	for lineStart < len(document) {
		lineEnd := strings.IndexByte(document[lineStart:], '\n')
		var line string
		var next int
		if lineEnd < 0 {
			line = document[lineStart:]
			next = len(document)
		} else {
			line = document[lineStart : lineStart+lineEnd]
			next = lineStart + lineEnd + 1
		}
		if strings.TrimSpace(line) == "" {
			inParagraph = false
		} else if !inParagraph {
			sections = append(sections, Section{Title: FallbackSectionTitle, Start: lineStart})
			inParagraph = true
		}
		lineStart = next
		if lineEnd < 0 {
			break
		}
	}
	return sections
}
