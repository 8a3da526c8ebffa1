package segment

import (
	"fmt"
	"strings"
)

// Segment splits a plain-text document into section-tagged fragments. Detected
// numbered headings bound the sections; a document with no detectable
// structure is segmented per paragraph under the fallback title.
func Segment(document string, chunkSize, overlap int) ([]Fragment, error) {
	sections := Detect(document)
	if len(sections) == 0 {
		sections = paragraphSections(document)
	}
	return chunkSections(document, sections, chunkSize, overlap)
}

// chunkSections runs the chunker over each section's span. A section's span
// ends where the next section starts, or at document end for the last one.
// Sections whose span is empty after trimming are skipped.
func chunkSections(document string, sections []Section, chunkSize, overlap int) ([]Fragment, error) {
	var fragments []Fragment
	for i, sec := range sections {
		end := len(document)
		if i+1 < len(sections) {
			end = sections[i+1].Start
		}
		span := document[sec.Start:end]
		if strings.TrimSpace(span) == "" {
			continue
		}

		chunks, err := Chunk(span, chunkSize, overlap, nil)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.Title, err)
		}
		for _, chunk := range chunks {
			fragments = append(fragments, Fragment{Section: sec.Title, Content: chunk})
		}
	}
	return fragments, nil
}
