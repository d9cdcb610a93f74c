package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// SessionCookie identifies a visitor's stored preferences.
const SessionCookie = "pages_session"

// session returns the visitor's session id, issuing a new cookie when the
// request has none or carries a malformed one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   365 * 24 * 60 * 60,
	})
	return id
}

// preferences returns the store for session. Without a database every
// request starts from scratch.
func (s *Server) preferences(session string) *pagestate.Preferences {
	if s.db == nil {
		return pagestate.NewPreferences(nil, s.cfg.Namespace, s.logger)
	}
	return pagestate.NewPreferences(s.db.PreferenceKV(session), s.cfg.Namespace, s.logger)
}

// requestLocale returns the visitor's most preferred Accept-Language tag,
// or "" when the header is absent or malformed.
func requestLocale(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

type preferencesResponse struct {
	Session  string `json:"session"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
	Saved    bool   `json:"saved"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	prefs := s.preferences(session)

	var stored map[string]string
	if s.db != nil {
		var err error
		if stored, err = s.db.SessionPreferences(session); err != nil {
			s.logger.Error("reading preferences", "session", session, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not read preferences"})
			return
		}
	}
	savedLang := stored[prefs.Key(pagestate.PrefLanguage)]
	savedTheme := stored[prefs.Key(pagestate.PrefTheme)]

	resp := preferencesResponse{
		Session: session,
		Saved:   savedLang != "" || savedTheme != "",
	}
	if lang, ok := pagestate.ParseLanguage(savedLang); ok {
		resp.Language = string(lang)
	} else {
		resp.Language = string(pagestate.DetectLanguage(requestLocale(r)))
	}
	resp.Theme = string(s.gen.DefaultTheme)
	if theme, ok := pagestate.ParseTheme(savedTheme); ok {
		resp.Theme = string(theme)
	}
	if resp.Theme == "" {
		resp.Theme = string(pagestate.Light)
	}

	writeJSON(w, http.StatusOK, resp)
}

type preferenceRequest struct {
	Value string `json:"value"`
}

func (s *Server) handlePutPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	value := strings.TrimSpace(req.Value)

	switch key {
	case pagestate.PrefLanguage:
		lang, ok := pagestate.ParseLanguage(value)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "language must be en or zh"})
			return
		}
		value = string(lang)
	case pagestate.PrefTheme:
		theme, ok := pagestate.ParseTheme(value)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "theme must be light or dark"})
			return
		}
		value = string(theme)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown preference " + key})
		return
	}

	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "preference storage is disabled"})
		return
	}
	session := s.session(w, r)
	prefs := s.preferences(session)
	if err := s.db.SetPreference(session, prefs.Key(key), value); err != nil {
		s.logger.Error("saving preference", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save preference"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{key: value})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
