package store

import (
	"fmt"
	"log"
	"time"

	"github.com/ayusman/yantra/internal/events"
)

// Entry is one persisted command outcome.
type Entry struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Producer string    `json:"producer"`
	Status   string    `json:"status"`
	Wire     string    `json:"wire,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// AppendHistory records one command event.
func (s *Store) AppendHistory(ev events.Event) error {
	_, err := s.db.Exec(
		`INSERT INTO history (id, at, producer, status, wire, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Time, ev.Producer, ev.Status, ev.Wire, ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit entries, newest first.
func (s *Store) RecentHistory(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, at, producer, status, wire, detail
		 FROM history ORDER BY at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.At, &e.Producer, &e.Status, &e.Wire, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordEvents consumes command events from the hub until cancel is
// called, persisting each one. Run it on its own goroutine.
func (s *Store) RecordEvents(hub *events.Hub) (cancel func()) {
	ch, cancel := hub.Subscribe()
	go func() {
		for ev := range ch {
			if ev.Kind != events.KindCommand {
				continue
			}
			if err := s.AppendHistory(ev); err != nil {
				log.Printf("could not persist history entry: %v", err)
			}
		}
	}()
	return cancel
}
