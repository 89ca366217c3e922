package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"incidentassist/internal/analytics"
	"incidentassist/internal/domain"
	"incidentassist/internal/embedding"
	"incidentassist/internal/llm"
	"incidentassist/internal/pipeline"
	"incidentassist/internal/prompt"
	"incidentassist/internal/vectorstore"
)

// Summarizer bounds free text to a fixed number of sentences.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Chunker splits documents into chunks suitable for embedding.
type Chunker interface {
	Chunk(document domain.Document) ([]domain.Chunk, error)
}

// Options bounds the retrieval and digest sizes per query.
type Options struct {
	TopK            int
	SolutionTopK    int
	DigestSentences int
}

// AssistService answers incident queries: embed the query, search similar
// incidents, run the relevance/analytics pipeline, and ask the chat model for
// an answer grounded in the relevant incidents and the solution guide.
type AssistService struct {
	embedder   embedding.Embedder
	incidents  vectorstore.Store
	solutions  vectorstore.Store
	chat       llm.ChatModel
	pipe       *pipeline.Pipeline
	summarizer Summarizer
	chunker    Chunker
	opts       Options
}

func New(embedder embedding.Embedder, incidents, solutions vectorstore.Store, chat llm.ChatModel, pipe *pipeline.Pipeline, summarizer Summarizer, chunker Chunker, opts Options) *AssistService {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.SolutionTopK <= 0 {
		opts.SolutionTopK = 1
	}
	if opts.DigestSentences <= 0 {
		opts.DigestSentences = 10
	}
	return &AssistService{
		embedder:   embedder,
		incidents:  incidents,
		solutions:  solutions,
		chat:       chat,
		pipe:       pipe,
		summarizer: summarizer,
		chunker:    chunker,
		opts:       opts,
	}
}

// Answer is the structured result of one query.
type Answer struct {
	Text        string
	Relevant    []domain.Incident
	NonRelevant []domain.Incident
	Snapshot    analytics.Snapshot
	Threshold   float64
	Dropped     int
}

// Ask runs the full query flow. A failing solution-guide lookup degrades to an
// empty guide rather than failing the query.
func (s *AssistService) Ask(query string) (*Answer, error) {
	vec, err := s.embedder.Embed(query, embedding.InputQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.incidents.Search(vec, s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("search incidents: %w", err)
	}

	res := s.pipe.Run(query, hits)
	ans := &Answer{
		Relevant:    res.Relevant,
		NonRelevant: res.NonRelevant,
		Snapshot:    res.Snapshot,
		Threshold:   res.Threshold,
		Dropped:     res.Dropped,
	}
	if len(res.Relevant) == 0 {
		ans.Text = "No incidents found for this query."
		return ans, nil
	}

	guide := s.solutionGuide(vec)
	digest := prompt.ClosureNotes(res.Relevant)
	if digest != "" && s.summarizer != nil {
		if short, err := s.summarizer.Summarize(digest, s.opts.DigestSentences); err == nil {
			digest = short
		}
	}
	userPrompt := prompt.User(query, guide, digest, prompt.Incidents(res.Relevant))
	text, err := s.chat.Complete(prompt.System, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	ans.Text = text
	return ans, nil
}

// solutionGuide fetches the best-matching solution chunks for the query
// vector. Best effort: any failure yields an empty guide.
func (s *AssistService) solutionGuide(vec []float64) string {
	if s.solutions == nil {
		return ""
	}
	hits, err := s.solutions.Search(vec, s.opts.SolutionTopK)
	if err != nil {
		return ""
	}
	var parts []string
	for _, h := range hits {
		if text := h.Payload["text"]; text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// IngestIncidents recreates the incidents collection from a JSON file holding
// an array of incident payload objects. The description field is embedded;
// the whole payload is stored verbatim. Returns the number of uploaded
// incidents.
func (s *AssistService) IngestIncidents(jsonPath string) (int, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, err
	}
	var payloads []map[string]string
	if err := json.Unmarshal(data, &payloads); err != nil {
		return 0, fmt.Errorf("parse %s: %w", jsonPath, err)
	}
	if err := s.recreate(s.incidents); err != nil {
		return 0, err
	}
	count := 0
	for i, payload := range payloads {
		text := payload["description"]
		if text == "" {
			text = payload["incident_description"]
		}
		if text == "" {
			continue
		}
		vec, err := s.embedder.Embed(text, embedding.InputDocument)
		if err != nil {
			return count, fmt.Errorf("embed incident %d: %w", i+1, err)
		}
		point := domain.Point{ID: uuid.NewString(), Vector: vec, Payload: payload}
		if err := s.incidents.Upsert([]domain.Point{point}); err != nil {
			return count, fmt.Errorf("upsert incident %d: %w", i+1, err)
		}
		count++
	}
	return count, nil
}

// IngestSolutionDocs recreates the solutions collection from plain-text
// solution guides, chunked into word windows. Returns the number of uploaded
// chunks.
func (s *AssistService) IngestSolutionDocs(paths []string) (int, error) {
	var documents []domain.Document
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			ext := strings.ToLower(filepath.Ext(m))
			if ext != ".txt" && ext != ".md" {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return 0, err
			}
			documents = append(documents, domain.Document{ID: filepath.Base(m), Path: m, Content: string(data)})
		}
	}
	if len(documents) == 0 {
		return 0, fmt.Errorf("no .txt or .md solution documents found")
	}
	if err := s.recreate(s.solutions); err != nil {
		return 0, err
	}
	count := 0
	for _, doc := range documents {
		chunks, err := s.chunker.Chunk(doc)
		if err != nil {
			return count, err
		}
		points := make([]domain.Point, 0, len(chunks))
		for _, ch := range chunks {
			vec, err := s.embedder.Embed(ch.Text, embedding.InputDocument)
			if err != nil {
				return count, fmt.Errorf("embed chunk %s: %w", ch.ChunkID, err)
			}
			points = append(points, domain.Point{
				ID:     uuid.NewString(),
				Vector: vec,
				Payload: map[string]string{
					"text":        ch.Text,
					"source_file": doc.ID,
				},
			})
		}
		if err := s.solutions.Upsert(points); err != nil {
			return count, fmt.Errorf("upsert chunks from %s: %w", doc.ID, err)
		}
		count += len(points)
	}
	return count, nil
}

func (s *AssistService) recreate(store vectorstore.Store) error {
	if err := store.Clear(); err != nil {
		return err
	}
	return store.Init(s.embedder.Dimension())
}
