// Package formatter renders the indexed content collection into a single
// flattened markdown document for LLM consumption.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/vishalkatlan/llm-txt-generator/pkg/content"
)

// Render produces the final document: a header, a numbered table of
// contents, and one section per content item with its description and
// code blocks.
func Render(items []*content.Item, repoURL, repoName string) string {
	var doc strings.Builder

	fmt.Fprintf(&doc, "# %s Documentation\n\n", repoName)
	fmt.Fprintf(&doc, "Repository: %s\n", repoURL)
	fmt.Fprintf(&doc, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	doc.WriteString("## Contents\n\n")

	for i, item := range items {
		fmt.Fprintf(&doc, "%d. [%s](#%d-%s)\n", i+1, item.Title, i+1, slugify(item.Title))
	}

	doc.WriteString("\n---\n\n")

	for i, item := range items {
		fmt.Fprintf(&doc, "## %d. %s\n\n", i+1, item.Title)
		fmt.Fprintf(&doc, "**Source:** %s\n\n", item.Source)
		fmt.Fprintf(&doc, "%s\n\n", item.Description)

		for j, block := range item.CodeBlocks {
			fmt.Fprintf(&doc, "### Code Block %d\n\n", j+1)
			fmt.Fprintf(&doc, "```%s\n%s\n```\n\n", block.Language, block.Code)
		}

		doc.WriteString("---\n\n")
	}

	return doc.String()
}

// slugify lowercases a title and strips punctuation so it can be used as
// a markdown anchor.
func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
