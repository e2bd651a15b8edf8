package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/blogdeck/internal/listing"
	"github.com/ziadkadry99/blogdeck/internal/posts"
	"github.com/ziadkadry99/blogdeck/internal/preferences"
	"github.com/ziadkadry99/blogdeck/internal/site"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("page: %w", err))
		return
	}

	c := s.coordinator(s.messages(r))
	switch {
	case q.Get("q") != "":
		c.Search(q.Get("q"))
	case q.Get("category") != "":
		c.FilterByCategory(q.Get("category"))
	}

	writeJSON(w, http.StatusOK, c.Display(r.Context(), page))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.coordinator(s.messages(r)).Post(r.Context(), id)
	if errors.Is(err, posts.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("loading post")
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type categoriesResponse struct {
	AllLabel string `json:"allLabel"`
	listing.Counts
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	msgs := s.messages(r)
	c := s.coordinator(msgs)
	if category := r.URL.Query().Get("category"); category != "" {
		c.FilterByCategory(category)
	}
	writeJSON(w, http.StatusOK, categoriesResponse{
		AllLabel: msgs.AllCategories,
		Counts:   c.Categories(),
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r.URL.Query().Get("n"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("n: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, s.coordinator(s.messages(r)).Recent(r.Context(), n))
}

func (s *Server) handlePostPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := site.PostPage(r.Context(), s.Store(), s.renderer, s.messages(r), id)
	if errors.Is(err, posts.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("rendering post")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page.BasePath = "/"
	page.LiveReload = s.hub != nil
	page.Theme = string(preferences.ThemeLight)
	if s.prefs != nil {
		theme, err := s.prefs.Theme(r.Context(), preferences.ClientID(w, r))
		if err != nil {
			s.log.Warn().Err(err).Msg("loading theme")
		} else {
			page.Theme = string(theme)
		}
	}

	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, page); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("executing page template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// intParam parses an optional integer query parameter.
func intParam(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
