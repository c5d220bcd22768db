package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/tealium/internal/datalayer"
)

// Snapshot is one recorded data layer.
type Snapshot struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	ContentHash string                `json:"content_hash"`
	Payload     string                `json:"payload"` // canonical JSON of accepted values
	Accepted    int                   `json:"accepted"`
	Rejected    []datalayer.Rejection `json:"rejected"`
	Seq         int64                 `json:"seq"`
}

// IDGenerator produces snapshot IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 snapshot IDs.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if the random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewSnapshot builds a snapshot record for dl.
func NewSnapshot(id, name string, seq int64, dl datalayer.DataLayer) (Snapshot, error) {
	payload, err := dl.JSON()
	if err != nil {
		return Snapshot{}, fmt.Errorf("new snapshot: %w", err)
	}

	rejected := dl.Rejected
	if rejected == nil {
		rejected = []datalayer.Rejection{}
	}

	return Snapshot{
		ID:          id,
		Name:        name,
		ContentHash: dl.Hash,
		Payload:     string(payload),
		Accepted:    len(dl.Values),
		Rejected:    rejected,
		Seq:         seq,
	}, nil
}
