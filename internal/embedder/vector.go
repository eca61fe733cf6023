package embedder

import pgvector "github.com/pgvector/pgvector-go"

// ToVector wraps a raw embedding in the pgvector type indexstore's
// embedding column expects.
func ToVector(raw []float32) pgvector.Vector {
	return pgvector.NewVector(raw)
}
