package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DefaultExcludeDirs are directories skipped during traversal unless
// overridden.
var DefaultExcludeDirs = []string{
	"node_modules", ".git", "__pycache__", "venv", ".venv",
	".github", ".vscode", ".idea",
}

// DefaultFileTypes are the extensions processed unless overridden.
var DefaultFileTypes = []string{
	".md", ".py", ".js", ".jsx", ".ts", ".tsx",
	".html", ".css", ".json", ".yaml", ".yml", ".go",
}

// languageByExt maps file extensions to fence language tags.
var languageByExt = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "jsx",
	".ts":   "typescript",
	".tsx":  "tsx",
	".go":   "go",
	".html": "html",
	".css":  "css",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
}

var (
	titleRe     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	fenceRe     = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)\\n```")
	docstringRe = regexp.MustCompile(`(?s)"""(.*?)"""`)
	jsdocRe     = regexp.MustCompile(`(?s)/\*\*(.*?)\*/`)
)

// Processor extracts content items from files in a repository working tree.
type Processor struct {
	repoPath    string
	includeDirs []string
	excludeDirs []string
	fileTypes   []string
	logger      *zap.Logger
}

// NewProcessor creates a processor rooted at repoPath. Empty includeDirs
// means all directories; nil excludeDirs and fileTypes select the defaults.
func NewProcessor(repoPath string, includeDirs, excludeDirs, fileTypes []string, logger *zap.Logger) *Processor {
	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}
	if fileTypes == nil {
		fileTypes = DefaultFileTypes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		repoPath:    repoPath,
		includeDirs: includeDirs,
		excludeDirs: excludeDirs,
		fileTypes:   fileTypes,
		logger:      logger,
	}
}

// Files walks the repository and returns the paths matching the directory
// and extension filters, in traversal order.
func (p *Processor) Files() ([]string, error) {
	var files []string

	err := filepath.WalkDir(p.repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p.excluded(d.Name()) && path != p.repoPath {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(p.repoPath, path)
		if err != nil {
			return err
		}

		if !p.included(rel) {
			return nil
		}

		ext := filepath.Ext(path)
		for _, t := range p.fileTypes {
			if ext == t {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", p.repoPath, err)
	}

	return files, nil
}

// ProcessFile reads a file and extracts an Item from it.
func (p *Processor) ProcessFile(path string) (*Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// Lossy UTF-8 decode: invalid bytes become replacement runes.
	text := strings.ToValidUTF8(string(raw), "�")

	rel, err := filepath.Rel(p.repoPath, path)
	if err != nil {
		rel = path
	}

	ext := filepath.Ext(path)
	var item *Item
	if ext == ".md" {
		item = processMarkdown(text, rel)
	} else {
		item = processCode(text, ext, rel)
	}

	p.logger.Debug("processed file", zap.String("path", rel), zap.Int("code_blocks", len(item.CodeBlocks)))
	return item, nil
}

// ProcessAll runs ProcessFile over every matching file. Files that fail to
// process are skipped with a warning; a bad file must not abort the run.
func (p *Processor) ProcessAll() ([]*Item, error) {
	files, err := p.Files()
	if err != nil {
		return nil, err
	}
	return p.ProcessFiles(files), nil
}

// ProcessFiles processes the given files, skipping failures with a warning.
func (p *Processor) ProcessFiles(files []string) []*Item {
	items := make([]*Item, 0, len(files))
	for _, f := range files {
		item, err := p.ProcessFile(f)
		if err != nil {
			p.logger.Warn("failed to process file", zap.String("path", f), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items
}

func (p *Processor) excluded(dir string) bool {
	for _, d := range p.excludeDirs {
		if dir == d {
			return true
		}
	}
	return false
}

func (p *Processor) included(rel string) bool {
	if len(p.includeDirs) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	// Root-level files are always in scope; the filter selects directories.
	if !strings.Contains(rel, "/") {
		return true
	}
	for _, d := range p.includeDirs {
		if strings.HasPrefix(rel, strings.TrimSuffix(filepath.ToSlash(d), "/")+"/") {
			return true
		}
	}
	return false
}

func processMarkdown(text, rel string) *Item {
	title := filepath.Base(rel)
	if m := titleRe.FindStringSubmatch(text); m != nil {
		title = strings.TrimSpace(m[1])
	}

	description := firstParagraphLine(text)
	if description == "" {
		description = "No description available"
	}

	var blocks []CodeBlock
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		lang := m[1]
		if lang == "" {
			lang = "text"
		}
		blocks = append(blocks, CodeBlock{Language: lang, Code: m[2]})
	}

	return &Item{
		Title:       title,
		Description: description,
		Source:      rel,
		Content:     text,
		Kind:        KindMarkdown,
		CodeBlocks:  blocks,
	}
}

func processCode(text, ext, rel string) *Item {
	language := languageByExt[ext]
	if language == "" {
		language = "text"
	}

	var description string
	switch language {
	case "python":
		if m := docstringRe.FindStringSubmatch(text); m != nil {
			description = strings.TrimSpace(m[1])
		}
	case "javascript", "typescript", "jsx", "tsx":
		if m := jsdocRe.FindStringSubmatch(text); m != nil {
			description = strings.TrimSpace(m[1])
		}
	}
	if description == "" {
		description = "Code file: " + rel
	}

	return &Item{
		Title:       filepath.Base(rel),
		Description: description,
		Source:      rel,
		Content:     text,
		Kind:        KindCode,
		CodeBlocks:  []CodeBlock{{Language: language, Code: text}},
	}
}

// firstParagraphLine returns the first non-empty line that is not a heading.
func firstParagraphLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}
