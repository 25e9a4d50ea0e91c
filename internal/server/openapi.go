package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/rickpersak/idle-rpg/internal/save"
	"github.com/rickpersak/idle-rpg/internal/session"
	"github.com/rickpersak/idle-rpg/internal/settings"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SaveResponse confirms a manual save.
type SaveResponse struct {
	OK          bool   `json:"ok"`
	Slot        string `json:"slot"`
	Overwritten bool   `json:"overwritten"`
}

type loadRequest struct {
	Slot string `json:"slot"`
}

type saveRequest struct {
	Name string `json:"name"`
}

type taskRequest struct {
	ProfessionID string `json:"professionId"`
	TaskIndex    int    `json:"taskIndex"`
}

type sellRequest struct {
	SlotIndex int   `json:"slotIndex"`
	Quantity  int64 `json:"quantity"`
}

type moveRequest struct {
	FromIndex int `json:"fromIndex"`
	ToIndex   int `json:"toIndex"`
}

type equipRequest struct {
	SlotIndex int `json:"slotIndex"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Idle RPG API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the browser idle RPG.")

	add := func(method, path, summary string, req any, resps ...any) {
		oc, _ := r.NewOperationContext(method, path)
		oc.SetSummary(summary)
		if req != nil {
			oc.AddReqStructure(req)
		}
		for i, resp := range resps {
			status := http.StatusOK
			if i > 0 {
				status = http.StatusBadRequest
			}
			oc.AddRespStructure(resp, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	add(http.MethodPost, "/api/auth/session", "Anonymous sign-in", nil, map[string]any{})
	add(http.MethodGet, "/api/auth/session", "Current identity", nil, map[string]any{})
	add(http.MethodPost, "/api/auth/logout", "Sign out", nil, map[string]any{})

	add(http.MethodGet, "/api/game/state", "Game state", nil, session.StateView{})
	add(http.MethodPost, "/api/game/new", "Start a new game", nil, session.StateView{})
	add(http.MethodPost, "/api/game/continue", "Continue last save", nil, session.StateView{}, ErrorResponse{})
	add(http.MethodPost, "/api/game/load", "Load a named slot", loadRequest{}, session.StateView{}, ErrorResponse{})
	add(http.MethodPost, "/api/game/save", "Manual save", saveRequest{}, SaveResponse{}, ErrorResponse{})
	add(http.MethodPost, "/api/game/task", "Set or toggle a task", taskRequest{}, session.StateView{})
	add(http.MethodPost, "/api/game/sell", "Sell from a slot", sellRequest{}, session.StateView{})
	add(http.MethodPost, "/api/game/move", "Move inventory items", moveRequest{}, session.StateView{})
	add(http.MethodPost, "/api/game/equip", "Equip an item", equipRequest{}, session.StateView{})
	add(http.MethodPost, "/api/game/upgrade", "Buy inventory capacity", nil, session.StateView{})
	add(http.MethodGet, "/api/saves", "Save directory", nil, save.Document{})

	add(http.MethodGet, "/api/settings", "Get settings", nil, settings.Settings{})
	add(http.MethodPut, "/api/settings", "Update settings", settings.Patch{}, settings.Settings{})

	events, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	events.SetSummary("Notification stream")
	events.SetDescription("Upgrades to a WebSocket delivering JSON notifications.")
	events.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(events)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, err := json.Marshal(spec)
	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, "openapi spec unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(data)
	}
}
