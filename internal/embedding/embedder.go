package embedding

// InputType tells the embedding provider whether the text is a query or a
// document being indexed; some models produce asymmetric embeddings.
type InputType string

const (
	InputQuery    InputType = "search_query"
	InputDocument InputType = "search_document"
)

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string, inputType InputType) ([]float64, error)
}
