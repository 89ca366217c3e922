package memory

import (
	"errors"
	"sort"
	"sync"

	"incidentassist/internal/domain"
)

// Store is an in-memory vector store using brute-force cosine similarity.
// Useful for tests and local runs without a Qdrant instance; vectors are
// assumed L2-normalized so the dot product is the cosine score.
type Store struct {
	mu        sync.RWMutex
	dimension int
	points    []domain.Point
}

func New() *Store { return &Store{} }

func (s *Store) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.points = nil
	return nil
}

func (s *Store) Upsert(points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if len(p.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.points = append(s.points, points...)
	return nil
}

func (s *Store) Search(vector []float64, topK int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 10
	}
	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(s.points))
	for i, p := range s.points {
		scores[i] = scored{i, dot(p.Vector, vector)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK > len(scores) {
		topK = len(scores)
	}
	hits := make([]domain.SearchHit, 0, topK)
	for i := 0; i < topK; i++ {
		p := s.points[scores[i].idx]
		payload := make(map[string]string, len(p.Payload))
		for k, v := range p.Payload {
			payload[k] = v
		}
		hits = append(hits, domain.SearchHit{Payload: payload, Score: scores[i].score})
	}
	return hits, nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = nil
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
