package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/thywilljoshua/slide2script/internal/extract"
	"github.com/thywilljoshua/slide2script/internal/script"
)

const maxRequestBytes = 1 << 20

// scriptRequest is one slide submitted on its own. The camelCase names match
// the web client's payload.
type scriptRequest struct {
	SlideNumber       int    `json:"slideNumber"`
	Title             string `json:"title"`
	Content           string `json:"content"`
	Notes             string `json:"notes"`
	TotalSlides       int    `json:"totalSlides"`
	PresentationTitle string `json:"presentationTitle"`
	Author            string `json:"author"`
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SlideNumber < 1 {
		s.respondError(w, http.StatusBadRequest, "slideNumber must be at least 1")
		return
	}
	if req.TotalSlides < req.SlideNumber {
		req.TotalSlides = 0
	}

	page := extract.PageContent{
		Index: req.SlideNumber,
		Title: strings.TrimSpace(req.Title),
		Body:  strings.TrimSpace(req.Content),
		Notes: strings.TrimSpace(req.Notes),
	}
	if page.Title == "" {
		page.Title = "Slide " + strconv.Itoa(page.Index)
	}
	meta := extract.Metadata{Title: req.PresentationTitle, Author: req.Author}
	if meta.Title == "" {
		meta.Title = extract.DefaultDeckTitle
	}
	if meta.Author == "" {
		meta.Author = extract.DefaultAuthor
	}

	docContext := script.ContextFor(meta, extract.KindSlideDeck, req.TotalSlides, "")
	rec := s.generator.Page(r.Context(), docContext, extract.KindSlideDeck, page, req.TotalSlides)
	if !rec.GenerationSucceeded {
		s.respondError(w, http.StatusBadGateway, "failed to generate script")
		return
	}
	s.logger.Debug("script request served",
		zap.Int("slide", rec.Index),
		zap.Float64("seconds", rec.EstimatedSeconds))
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
