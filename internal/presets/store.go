package presets

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/pattern"
)

// Preset is a named, persisted PatternParams snapshot.
type Preset struct {
	ID        string
	Name      string
	Params    pattern.Params
	CreatedAt time.Time
}

// Save inserts a new named preset and returns its generated ID.
func (d *DB) Save(name string, params pattern.Params) (string, error) {
	id := uuid.New().String()
	_, err := d.db.Exec(`
		INSERT INTO presets
			(id, name, genre, energy, shape, axis_x, axis_y, drift, accent, balance, build, swing, pattern_len, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, name, int(params.Genre), params.Energy, params.Shape, params.AxisX, params.AxisY,
		params.Drift, params.Accent, params.Balance, params.Build, params.Swing,
		params.PatternLength, params.Seed)
	if err != nil {
		return "", fmt.Errorf("failed to save preset: %w", err)
	}
	return id, nil
}

// Get loads one preset by ID.
func (d *DB) Get(id string) (Preset, error) {
	row := d.db.QueryRow(`
		SELECT id, name, genre, energy, shape, axis_x, axis_y, drift, accent, balance, build, swing, pattern_len, seed, created_at
		FROM presets WHERE id = ?
	`, id)
	return scanPreset(row)
}

// List returns all saved presets, most recent first.
func (d *DB) List() ([]Preset, error) {
	rows, err := d.db.Query(`
		SELECT id, name, genre, energy, shape, axis_x, axis_y, drift, accent, balance, build, swing, pattern_len, seed, created_at
		FROM presets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a preset by ID.
func (d *DB) Delete(id string) error {
	_, err := d.db.Exec("DELETE FROM presets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", id, err)
	}
	return nil
}

// RecordGeneration appends one generation-history row, optionally tied
// to a preset, capturing the composite fitness score achieved.
func (d *DB) RecordGeneration(presetID string, seed uint32, composite float32) error {
	id := uuid.New().String()
	var presetArg any
	if presetID != "" {
		presetArg = presetID
	}
	_, err := d.db.Exec(`
		INSERT INTO generation_history (id, preset_id, seed, composite)
		VALUES (?, ?, ?, ?)
	`, id, presetArg, seed, composite)
	if err != nil {
		return fmt.Errorf("failed to record generation history: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (Preset, error) {
	var p Preset
	var genre int
	if err := row.Scan(
		&p.ID, &p.Name, &genre,
		&p.Params.Energy, &p.Params.Shape, &p.Params.AxisX, &p.Params.AxisY,
		&p.Params.Drift, &p.Params.Accent, &p.Params.Balance, &p.Params.Build, &p.Params.Swing,
		&p.Params.PatternLength, &p.Params.Seed, &p.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return Preset{}, fmt.Errorf("preset not found: %w", err)
		}
		return Preset{}, fmt.Errorf("failed to scan preset: %w", err)
	}
	p.Params.Genre = archetype.Genre(genre)
	return p, nil
}
