// This file is part of Sketchbook.
//
// Sketchbook is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sketchbook is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sketchbook.  If not, see <https://www.gnu.org/licenses/>.

package manifest

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/procgen/sketchbook/curated"
)

//go:embed schema.sql
var schemaSQL string

// Record is an entry in the catalog.
type Record struct {
	Entry
	ImageDigest uint64
	Published   time.Time
}

// catalog of published checkpoints. the catalog is what allows external
// tooling to find checkpoints by seed or run without walking the versions
// directory
type catalog struct {
	db *sql.DB
}

func openCatalog(ctx context.Context, path string) (*catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	// there is only ever one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialise catalog schema: %w", err)
	}

	return &catalog{db: db}, nil
}

func (c *catalog) close() error {
	return c.db.Close()
}

// times are stored in UTC with a fixed number of fractional digits so that
// they sort as text
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// upsert the entry. the time of first publication is preserved so publishing
// the same checkpoint twice leaves the catalog unchanged
func (c *catalog) upsert(ctx context.Context, e Entry, digest uint64) error {
	const q = `
INSERT INTO checkpoints (name, frame, seed, algorithm, run_id, created_at, image_digest, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
  frame=excluded.frame,
  seed=excluded.seed,
  algorithm=excluded.algorithm,
  run_id=excluded.run_id,
  created_at=excluded.created_at,
  image_digest=excluded.image_digest;
`
	_, err := c.db.ExecContext(ctx, q,
		e.Name,
		strconv.FormatUint(e.Frame, 10),
		strconv.FormatUint(e.Seed, 10),
		e.Algorithm,
		e.RunID,
		e.Created.UTC().Format(timeFormat),
		strconv.FormatUint(digest, 16),
		time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("upsert %q: %w", e.Name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r                   Record
		frame, seed, digest string
		created, published  string
	)

	if err := row.Scan(&r.Name, &frame, &seed, &r.Algorithm, &r.RunID, &created, &digest, &published); err != nil {
		return Record{}, err
	}

	var err error
	if r.Frame, err = strconv.ParseUint(frame, 10, 64); err != nil {
		return Record{}, curated.Errorf("catalog: frame of %q: %v", r.Name, err)
	}
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Record{}, curated.Errorf("catalog: seed of %q: %v", r.Name, err)
	}
	if r.ImageDigest, err = strconv.ParseUint(digest, 16, 64); err != nil {
		return Record{}, curated.Errorf("catalog: digest of %q: %v", r.Name, err)
	}
	if r.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Record{}, curated.Errorf("catalog: created time of %q: %v", r.Name, err)
	}
	if r.Published, err = time.Parse(time.RFC3339Nano, published); err != nil {
		return Record{}, curated.Errorf("catalog: published time of %q: %v", r.Name, err)
	}

	return r, nil
}

const selectRecord = `
SELECT name, frame, seed, algorithm, run_id, created_at, image_digest, published_at
FROM checkpoints
`

// list all records in creation order. frame numbers are stored as decimal
// strings so ordering by length first gives numerical order
func (c *catalog) list(ctx context.Context) ([]Record, error) {
	rows, err := c.db.QueryContext(ctx, selectRecord+"ORDER BY created_at, length(frame), frame;")
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (c *catalog) lookup(ctx context.Context, name string) (Record, bool, error) {
	row := c.db.QueryRowContext(ctx, selectRecord+"WHERE name = ?;", name)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("lookup %q: %w", name, err)
	}
	return r, true, nil
}
