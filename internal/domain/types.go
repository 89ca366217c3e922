package domain

// Incident is one historical incident record as used for relevance
// classification, analytics and prompt context. Records are built once by the
// normalizer and never mutated afterwards.
type Incident struct {
	ID                string
	JobName           string
	Description       string
	Impact            string
	ClosureNotes      string
	AssignedTo        string
	AssignmentGroup   string
	ConfigurationItem string
	CIClass           string
	OpenedBy          string
	ResolvedBy        string
	ClosedBy          string
	OpenedTime        string
	ResolvedTime      string
	ClosedTime        string
	Priority          string
	Urgency           string
	State             string
	SimilarityScore   float64
}

// SearchHit is a raw vector-search result: an arbitrary string payload plus
// the similarity score reported by the store.
type SearchHit struct {
	Payload map[string]string
	Score   float64
}

// Point is a vector plus payload as persisted in a vector store.
type Point struct {
	ID      string
	Vector  []float64
	Payload map[string]string
}

// Document is a single solution-guide file loaded for ingestion.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a part of a document sized for embedding and retrieval.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}
