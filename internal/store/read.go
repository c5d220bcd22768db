package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const snapshotColumns = `id, name, content_hash, payload, accepted, rejected, seq`

// ReadSnapshot returns the snapshot with the given ID, or ErrNotFound.
func (s *Store) ReadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE id = ?
	`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, err)
	}
	return snap, nil
}

// ListSnapshots returns snapshots newest first (seq DESC).
// An empty name lists every snapshot; limit <= 0 means no limit.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListSnapshots(ctx context.Context, name string, limit int) ([]Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots`
	var args []any
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY seq DESC, id COLLATE BINARY ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// FindByHash returns snapshots whose payload hash matches, oldest first.
func (s *Store) FindByHash(ctx context.Context, contentHash string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM snapshots
		WHERE content_hash = ?
		ORDER BY seq ASC
	`, contentHash)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by hash: %w", err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var (
		snap     Snapshot
		rejected string
	)
	if err := sc.Scan(
		&snap.ID,
		&snap.Name,
		&snap.ContentHash,
		&snap.Payload,
		&snap.Accepted,
		&rejected,
		&snap.Seq,
	); err != nil {
		return Snapshot{}, err
	}

	if err := json.Unmarshal([]byte(rejected), &snap.Rejected); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal rejected for %s: %w", snap.ID, err)
	}
	return snap, nil
}
