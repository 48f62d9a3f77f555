package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/pkg/logging"
	"github.com/moodcast/moodcast/pkg/mood"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", logging.Fields{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		s.logger.Debug("Request handled", logging.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"duration":   time.Since(start).String(),
		})
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// saveUpload spools the multipart "file" part to a temp file and returns its
// path. The caller removes the file when done.
func (s *Server) saveUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	tmp, err := os.CreateTemp("", "moodcast-upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (s *Server) handlePredictAudio(w http.ResponseWriter, r *http.Request) {
	path, err := s.saveUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing or unreadable audio file")
		return
	}
	defer os.Remove(path)

	inference, err := s.pipeline.Analyze(r.Context(), path)
	if err != nil {
		s.logger.Error("Audio analysis failed", logging.Fields{"error": err.Error()})
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, inference)
}

// searchRequest is the search_by_mood body. Mood may be given directly or
// as a valence/arousal pair to map through the rule bands.
type searchRequest struct {
	recommend.SearchHints
	Valence *float64 `json:"valence,omitempty"`
	Arousal *float64 `json:"arousal,omitempty"`
}

func (s *Server) handleSearchByMood(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Mood is optional: query expansion degrades to the keyword and genre
	// templates and the fallback query when it is absent.
	hints := req.SearchHints
	if hints.Mood == "" && req.Valence != nil && req.Arousal != nil {
		hints.Mood = mood.MapMood(*req.Valence, *req.Arousal)
	}

	rec, err := s.pipeline.Recommend(r.Context(), hints, s.cfg.ResultLimit)
	if err != nil {
		s.logger.Error("Recommendation failed", logging.Fields{"error": err.Error()})
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// hintsFromForm reads optional search hints from multipart form values. List
// values may repeat or arrive as a single comma-separated field.
func hintsFromForm(r *http.Request) recommend.SearchHints {
	return recommend.SearchHints{
		Mood:     r.FormValue("mood"),
		Language: r.FormValue("language"),
		Genres:   formList(r, "genres"),
		Artists:  formList(r, "artist_names"),
		Tracks:   formList(r, "track_names"),
		Keywords: formList(r, "keywords"),
	}
}

func formList(r *http.Request, key string) []string {
	values := r.Form[key]
	if r.MultipartForm != nil {
		if mv := r.MultipartForm.Value[key]; len(mv) > 0 {
			values = mv
		}
	}
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *Server) handleRecommendFromAudio(w http.ResponseWriter, r *http.Request) {
	path, err := s.saveUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing or unreadable audio file")
		return
	}
	defer os.Remove(path)

	hints := hintsFromForm(r)

	result, err := s.pipeline.RecommendFromAudio(r.Context(), path, hints, s.cfg.ResultLimit)
	if err != nil {
		s.logger.Error("Audio recommendation failed", logging.Fields{"error": err.Error()})
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearchTracks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	limit := queryLimit(r, 10)
	tracks := s.search.SearchTracks(r.Context(), query, limit)
	s.writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

func (s *Server) handleSearchArtists(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	limit := queryLimit(r, 10)
	artists := s.search.SearchArtists(r.Context(), query, limit)
	s.writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 50 {
		return fallback
	}
	return n
}
