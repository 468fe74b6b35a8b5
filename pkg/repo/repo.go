// Package repo acquires remote repositories into a temporary working tree.
package repo

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Handler clones a repository into a temp directory and cleans it up
// afterwards. One Handler tracks at most one clone at a time.
type Handler struct {
	tempDir string
	logger  *zap.Logger
}

// NewHandler creates a repository handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Clone shallow-clones repoURL into a fresh temporary directory and
// returns its path. Any previous clone held by this handler is removed
// first.
func (h *Handler) Clone(ctx context.Context, repoURL string) (string, error) {
	h.Cleanup()

	if !strings.HasPrefix(repoURL, "https://github.com/") && !strings.HasPrefix(repoURL, "https://gitlab.com/") {
		return "", fmt.Errorf("only GitHub and GitLab repositories are supported, got %q", repoURL)
	}

	tempDir, err := os.MkdirTemp("", "llm-txt-generator-")
	if err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	h.tempDir = tempDir

	h.logger.Info("cloning repository", zap.String("url", repoURL))

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		h.Cleanup()
		return "", fmt.Errorf("cloning %s: %w", repoURL, err)
	}

	return tempDir, nil
}

// Cleanup removes the temporary clone, if any. Errors are ignored; a
// leftover temp dir is harmless.
func (h *Handler) Cleanup() {
	if h.tempDir != "" {
		_ = os.RemoveAll(h.tempDir)
		h.tempDir = ""
	}
}

// Name extracts the repository name from its URL.
func Name(repoURL string) string {
	repoURL = strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	parts := strings.Split(repoURL, "/")
	return parts[len(parts)-1]
}
