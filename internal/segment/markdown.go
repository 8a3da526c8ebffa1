package segment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// MarkdownSegmenter detects section boundaries in markdown sources from the
// document's heading structure (H1/H2) instead of the numbered-heading
// pattern. Chunking within a section is identical to the plain-text path.
type MarkdownSegmenter struct {
	parser goldmark.Markdown
}

// NewMarkdownSegmenter creates a segmenter backed by a goldmark parser.
func NewMarkdownSegmenter() *MarkdownSegmenter {
	return &MarkdownSegmenter{
		parser: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Segment splits a markdown document into section-tagged fragments. Section
// titles carry the heading hierarchy, e.g. "Installation > Prerequisites".
// Markdown without headings falls back to paragraph segmentation.
func (m *MarkdownSegmenter) Segment(document string, chunkSize, overlap int) ([]Fragment, error) {
	sections, err := m.Sections(document)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		sections = paragraphSections(document)
	}
	return chunkSections(document, sections, chunkSize, overlap)
}

// Sections returns the H1/H2 heading boundaries of a markdown document in
// offset order. An empty result means the document has no headings.
func (m *MarkdownSegmenter) Sections(document string) ([]Section, error) {
	source := []byte(document)
	doc := m.parser.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect headings: %w", err)
	}

	var sections []Section
	collectSections(doc, tree.Items, nil, &sections)
	sort.Slice(sections, func(i, j int) bool { return sections[i].Start < sections[j].Start })
	return sections, nil
}

// collectSections walks TOC items recursively, resolving each heading to its
// source offset and building the hierarchy title.
func collectSections(doc ast.Node, items toc.Items, ancestors []string, sections *[]Section) {
	for _, item := range items {
		path := append(ancestors, string(item.Title))

		heading := findHeadingByID(doc, string(item.ID))
		if heading == nil || heading.Lines().Len() == 0 {
			continue
		}

		*sections = append(*sections, Section{
			Title: strings.Join(path, " > "),
			Start: heading.Lines().At(0).Start,
		})

		if len(item.Items) > 0 {
			collectSections(doc, item.Items, path, sections)
		}
	}
}

// findHeadingByID locates a heading node by its auto-generated ID.
func findHeadingByID(node ast.Node, id string) ast.Node {
	var found ast.Node
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			headingID, ok := n.AttributeString("id")
			if ok && string(headingID.([]byte)) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}
