package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vishalkatlan/llm-txt-generator/pkg/content"
)

func TestRender(t *testing.T) {
	items := []*content.Item{
		{
			Title:       "Setup Guide",
			Description: "How to install.",
			Source:      "docs/setup.md",
			Kind:        content.KindMarkdown,
			CodeBlocks: []content.CodeBlock{
				{Language: "bash", Code: "make install"},
			},
		},
		{
			Title:       "util.py",
			Description: "Code file: util.py",
			Source:      "util.py",
			Kind:        content.KindCode,
		},
	}

	doc := Render(items, "https://github.com/acme/widget", "widget")

	assert.Contains(t, doc, "# widget Documentation")
	assert.Contains(t, doc, "Repository: https://github.com/acme/widget")
	assert.Contains(t, doc, "1. [Setup Guide](#1-setup-guide)")
	assert.Contains(t, doc, "2. [util.py](#2-utilpy)")
	assert.Contains(t, doc, "## 1. Setup Guide")
	assert.Contains(t, doc, "**Source:** docs/setup.md")
	assert.Contains(t, doc, "```bash\nmake install\n```")
	assert.Contains(t, doc, "## 2. util.py")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Setup Guide":        "setup-guide",
		"API: Reference!":    "api-reference",
		"hello_world (v2.0)": "hello_world-v20",
	}
	for in, want := range cases {
		assert.Equal(t, want, slugify(in), "slugify(%q)", in)
	}
}
