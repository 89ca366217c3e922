package vectorstore

import "incidentassist/internal/domain"

// Store persists embedded points and supports similarity search over them.
type Store interface {
	Init(dimension int) error
	Upsert(points []domain.Point) error
	Search(vector []float64, topK int) ([]domain.SearchHit, error)
	Clear() error
}
