package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	cases := map[string]string{
		"https://github.com/acme/widget":      "widget",
		"https://github.com/acme/widget.git":  "widget",
		"https://github.com/acme/widget/":     "widget",
		"https://gitlab.com/group/tool.git":   "tool",
		"https://github.com/acme/widget.git/": "widget",
	}
	for url, want := range cases {
		assert.Equal(t, want, Name(url), "Name(%q)", url)
	}
}

func TestCloneRejectsUnsupportedHost(t *testing.T) {
	h := NewHandler(nil)
	defer h.Cleanup()

	_, err := h.Clone(context.Background(), "https://example.com/acme/widget")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "only GitHub and GitLab")
}
