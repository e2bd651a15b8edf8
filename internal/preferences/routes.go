package preferences

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ClientCookie names the cookie that identifies a reader.
const ClientCookie = "blogdeck_client"

// RegisterRoutes mounts preference endpoints under /api/preferences on the
// given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/preferences", func(r chi.Router) {
		r.Get("/theme", handleGetTheme(store))
		r.Put("/theme", handleSetTheme(store))
		r.Post("/theme/toggle", handleToggleTheme(store))
	})
}

type themeBody struct {
	Theme Theme `json:"theme"`
}

func handleGetTheme(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := store.Theme(r.Context(), ClientID(w, r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, themeBody{Theme: theme})
	}
}

func handleSetTheme(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body themeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		err := store.SetTheme(r.Context(), ClientID(w, r), body.Theme)
		if errors.Is(err, ErrInvalidTheme) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func handleToggleTheme(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := store.ToggleTheme(r.Context(), ClientID(w, r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, themeBody{Theme: theme})
	}
}

// ClientID returns the reader's id from the cookie, issuing a new one when
// the cookie is missing or malformed.
func ClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ClientCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
