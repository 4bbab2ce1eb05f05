package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/idlerpg/internal/save"
)

var _ save.Store = (*Database)(nil)

// SaveSlot is one stored save blob.
type SaveSlot struct {
	Slot      string
	Data      []byte
	Checksum  string // BLAKE2b-256 of Data
	UpdatedAt time.Time
}

// Get returns the blob stored in slot, or save.ErrNoSaveData if there is none.
func (d *Database) Get(slot string) ([]byte, error) {
	var data string
	err := d.db.QueryRow(d.qb.Build(`SELECT data FROM save_slots WHERE slot = ?`), slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, save.ErrNoSaveData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save slot: %w", err)
	}
	return []byte(data), nil
}

// Put stores data in slot, replacing any previous blob.
func (d *Database) Put(slot string, data []byte) error {
	return d.PutSlot(SaveSlot{
		Slot:      slot,
		Data:      data,
		Checksum:  save.Checksum(data),
		UpdatedAt: time.Now().UTC(),
	})
}

// PutSlot stores a full row, keeping its checksum and timestamp.
func (d *Database) PutSlot(s SaveSlot) error {
	if s.Checksum == "" {
		s.Checksum = save.Checksum(s.Data)
	}
	query := d.qb.Upsert("save_slots", "slot", "slot", "data", "checksum", "updated_at")
	if _, err := d.db.Exec(query, s.Slot, string(s.Data), s.Checksum, s.UpdatedAt); err != nil {
		return fmt.Errorf("failed to write save slot: %w", err)
	}
	return nil
}

// Delete removes slot. Deleting an empty slot is not an error.
func (d *Database) Delete(slot string) error {
	if _, err := d.db.Exec(d.qb.Build(`DELETE FROM save_slots WHERE slot = ?`), slot); err != nil {
		return fmt.Errorf("failed to delete save slot: %w", err)
	}
	return nil
}

// ListSlots returns every stored slot ordered by name.
func (d *Database) ListSlots() ([]SaveSlot, error) {
	rows, err := d.db.Query(`SELECT slot, data, checksum, updated_at FROM save_slots ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	defer rows.Close()

	var slots []SaveSlot
	for rows.Next() {
		var s SaveSlot
		var data string
		if err := rows.Scan(&s.Slot, &data, &s.Checksum, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save slot: %w", err)
		}
		s.Data = []byte(data)
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// Verify reports whether the stored checksum still matches the data.
func (s SaveSlot) Verify() bool {
	return save.Checksum(s.Data) == s.Checksum
}
