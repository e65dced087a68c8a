package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/yantra/internal/command"
	"github.com/ayusman/yantra/internal/config"
	"github.com/ayusman/yantra/internal/mode"
	"github.com/ayusman/yantra/internal/store"
)

// handleStatus reports the connection, mode and per-channel actuator
// state for the GUI's status panel.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gw := s.config.App.Gateway()
	writeJSON(w, map[string]any{
		"connected": gw.Connected(),
		"stale":     gw.Stale(),
		"mode":      s.config.App.Coordinator().Current(),
		"actuators": gw.States(),
	})
}

// handleConnect opens the link. An empty body connects with the
// configured default; otherwise the body selects the link.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config.Connection
	if r.ContentLength > 0 {
		var body config.Connection
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if body.Baud == 0 {
			body.Baud = config.DefaultBaud
		}
		cfg = body
	}

	if err := s.config.App.Connect(cfg); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, map[string]string{"status": "connected"})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.config.App.Disconnect()
	writeJSON(w, map[string]string{"status": "disconnected"})
}

// handleKey accepts key press/release events from the GUI shell.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Key     string `json:"key"`
		Pressed bool   `json:"pressed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.config.App.Key(body.Key, body.Pressed); err != nil {
		s.writeSubmitError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleCommand accepts an explicit command request, mainly for the
// GUI's on-screen control buttons.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Actuator   string `json:"actuator"`
		Action     string `json:"action"`
		DurationMs int64  `json:"duration_ms"`
		Emergency  bool   `json:"emergency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := command.Request{Producer: command.ProducerKeyboard, Emergency: body.Emergency}
	if !body.Emergency {
		var err error
		if req.Actuator, err = command.ParseActuator(body.Actuator); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Action, err = command.ParseAction(body.Action); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		req.Duration = time.Duration(body.DurationMs) * time.Millisecond
	}

	if err := s.config.App.Submit(req); err != nil {
		s.writeSubmitError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleMode switches the input mode.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	m, err := mode.Parse(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.config.App.Coordinator().Set(m); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, map[string]any{"mode": m})
}

// historyEntry is a stored command outcome with its wire byte spelled
// out, so the monitor can render raw traffic without its own copy of
// the protocol table.
type historyEntry struct {
	store.Entry
	Decoded string `json:"decoded,omitempty"`
}

// decodeWire annotates a single wire byte with the channel and action
// it commands. Unknown or empty bytes yield no annotation.
func decodeWire(wire string) string {
	if len(wire) != 1 {
		return ""
	}
	if wire[0] == command.EmergencyStopChar {
		return "emergency stop"
	}
	ch, action, ok := command.Decode(wire[0])
	if !ok {
		return ""
	}
	return ch.String() + " " + action.String()
}

// handleHistory returns recent command outcomes, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rows, err := s.config.Store.RecentHistory(200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	entries := make([]historyEntry, len(rows))
	for i, row := range rows {
		entries[i] = historyEntry{Entry: row, Decoded: decodeWire(row.Wire)}
	}
	writeJSON(w, map[string]any{"entries": entries})
}

func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, command.ErrNotConnected):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, command.ErrPreempted):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}
