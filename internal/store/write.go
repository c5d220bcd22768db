package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// WriteSnapshot inserts a snapshot.
// Uses ON CONFLICT(id) DO NOTHING, so writing the same ID twice is a no-op
// and reports inserted=false. A seq collision is still an error.
func (s *Store) WriteSnapshot(ctx context.Context, snap Snapshot) (inserted bool, err error) {
	rejectedJSON, err := json.Marshal(snap.Rejected)
	if err != nil {
		return false, fmt.Errorf("write snapshot: marshal rejected: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, name, content_hash, payload, accepted, rejected, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		snap.ID,
		snap.Name,
		snap.ContentHash,
		snap.Payload,
		snap.Accepted,
		string(rejectedJSON),
		snap.Seq,
	)
	if err != nil {
		return false, fmt.Errorf("write snapshot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write snapshot: rows affected: %w", err)
	}
	return n > 0, nil
}
