package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rickpersak/idle-rpg/internal/auth"
)

// Handler exposes the game session over HTTP. Every route requires an
// authenticated user; the controller is resolved per request.
type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	c, err := h.manager.Controller(r.Context(), u.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "could not load game")
		return nil, false
	}
	return c, true
}

// GET /api/game/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/new
func (h *Handler) NewGame(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := c.NewGame(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, "could not start game")
		return
	}
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/continue
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if err := c.Continue(); err != nil {
		writeErr(w, http.StatusNotFound, "no saved game available")
		return
	}
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/load
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in struct {
		Slot string `json:"slot"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Slot == "" {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := c.LoadSlot(in.Slot); err != nil {
		var unknown *UnknownSlotError
		if errors.As(err, &unknown) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"error":      "unknown save slot",
				"slot":       unknown.Key,
				"suggestion": unknown.Suggestion,
			})
			return
		}
		writeErr(w, http.StatusInternalServerError, "could not load save")
		return
	}
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/save
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	slot, overwritten, err := c.Save(r.Context(), in.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSession):
			writeErr(w, http.StatusConflict, "no active game session")
		case errors.Is(err, ErrEmptyName):
			writeErr(w, http.StatusBadRequest, "save name cannot be empty")
		default:
			writeErr(w, http.StatusInternalServerError, "could not save game")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"slot":        slot,
		"overwritten": overwritten,
	})
}

// POST /api/game/task
func (h *Handler) SetTask(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in struct {
		ProfessionID string `json:"professionId"`
		TaskIndex    int    `json:"taskIndex"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c.SetTask(in.ProfessionID, in.TaskIndex)
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/sell
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in struct {
		SlotIndex int   `json:"slotIndex"`
		Quantity  int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c.Sell(in.SlotIndex, in.Quantity)
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/move
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in struct {
		FromIndex int `json:"fromIndex"`
		ToIndex   int `json:"toIndex"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c.Move(in.FromIndex, in.ToIndex)
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/equip
func (h *Handler) Equip(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in struct {
		SlotIndex int `json:"slotIndex"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c.Equip(in.SlotIndex)
	writeJSON(w, http.StatusOK, c.StateView())
}

// POST /api/game/upgrade
func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	c.UpgradeInventory()
	writeJSON(w, http.StatusOK, c.StateView())
}

// GET /api/saves
func (h *Handler) Saves(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c.Document())
}
