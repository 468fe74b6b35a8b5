package content

// Kind distinguishes how an item's source file was interpreted.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindCode     Kind = "code"
)

// CodeBlock is a fenced code block (or a whole code file) owned by an Item.
type CodeBlock struct {
	Language  string    // Language tag, e.g. "python"
	Code      string    // The code itself
	Embedding []float32 // Set by the index builder, nil before indexing
}

// Item is one unit of extracted repository content. Items are created by
// the Processor and annotated in place by the index builder; they live
// for a single generation run.
type Item struct {
	Title          string      // First heading for markdown, basename for code
	Description    string      // First paragraph line or leading doc comment
	Source         string      // Path relative to the repository root
	Content        string      // Raw file content
	Kind           Kind        // markdown or code
	CodeBlocks     []CodeBlock // In order of discovery in the source text
	TitleEmbedding []float32   // Set by the index builder, nil before indexing
}
