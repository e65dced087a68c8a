package store

import (
	"fmt"
	"time"

	"github.com/ayusman/yantra/internal/command"
	"github.com/ayusman/yantra/internal/recognize"
)

// SaveMapping replaces the stored mapping for one pipeline ("voice" or
// "gesture") with m.
func (s *Store) SaveMapping(pipeline string, m recognize.Mapping) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM mappings WHERE pipeline = ?`, pipeline); err != nil {
		return fmt.Errorf("clear mapping: %w", err)
	}

	for label, b := range m {
		emergency := 0
		if b.Emergency {
			emergency = 1
		}
		_, err := tx.Exec(
			`INSERT INTO mappings (pipeline, label, actuator, action, duration_ms, emergency)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			pipeline, label, b.Actuator.String(), b.Action.String(),
			b.Duration.Milliseconds(), emergency,
		)
		if err != nil {
			return fmt.Errorf("insert mapping %q: %w", label, err)
		}
	}

	return tx.Commit()
}

// LoadMapping returns the stored mapping for a pipeline. A pipeline
// with no stored rows yields an empty, non-nil mapping; the caller
// decides whether to fall back to defaults.
func (s *Store) LoadMapping(pipeline string) (recognize.Mapping, error) {
	rows, err := s.db.Query(
		`SELECT label, actuator, action, duration_ms, emergency
		 FROM mappings WHERE pipeline = ?`, pipeline)
	if err != nil {
		return nil, fmt.Errorf("query mapping: %w", err)
	}
	defer rows.Close()

	m := recognize.Mapping{}
	for rows.Next() {
		var (
			label, actuator, action string
			durationMs              int64
			emergency               int
		)
		if err := rows.Scan(&label, &actuator, &action, &durationMs, &emergency); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}

		b := recognize.Binding{
			Duration:  time.Duration(durationMs) * time.Millisecond,
			Emergency: emergency != 0,
		}
		if !b.Emergency {
			if b.Actuator, err = command.ParseActuator(actuator); err != nil {
				return nil, fmt.Errorf("mapping %q: %w", label, err)
			}
			if b.Action, err = command.ParseAction(action); err != nil {
				return nil, fmt.Errorf("mapping %q: %w", label, err)
			}
		}
		m[label] = b
	}
	return m, rows.Err()
}
