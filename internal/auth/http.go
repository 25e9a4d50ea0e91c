package auth

import (
	"encoding/json"
	"net/http"
	"time"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// Session handles /api/auth/session. POST signs in: an already-authenticated
// request keeps its identity, anything else gets a fresh anonymous user and
// cookie. GET reports the current identity.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.signIn(w, r)
	case http.MethodGet:
		h.current(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if u, sess, ok := h.service.AuthenticateRequest(r, now); ok {
		writeJSON(w, http.StatusOK, sessionResponse(u, sess, false))
		return
	}

	u, token, exp, err := h.service.SignInAnonymous(now)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "could not sign in")
		return
	}
	h.service.SetSessionCookie(w, r, token, exp)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"created":   true,
		"user":      map[string]any{"id": u.ID},
		"expiresAt": exp.Format(time.RFC3339),
	})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	u, sess, ok := h.service.AuthenticateRequest(r, time.Now())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(u, sess, false))
}

func sessionResponse(u User, sess Session, created bool) map[string]any {
	return map[string]any{
		"ok":      true,
		"created": created,
		"user":    map[string]any{"id": u.ID},
		"session": map[string]any{
			"id":        sess.ID,
			"expiresAt": sess.ExpiresAt.Format(time.RFC3339),
			"lastSeen":  sess.LastSeen.Format(time.RFC3339),
		},
	}
}

// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.service.RevokeSessionForRequest(r)
	h.service.ClearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
