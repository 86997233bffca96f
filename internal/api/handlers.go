package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"movierec/internal/catalog"
	"movierec/internal/genre"
	"movierec/internal/logging"
	"movierec/internal/metrics"
	"movierec/internal/recommend"
	"movierec/internal/store"
	"movierec/internal/survey"
)

const (
	maxBodyBytes = 1 << 20
	maxK         = 50
)

type Handler struct {
	catalog  *catalog.Catalog
	genres   *genre.Filter
	rec      *recommend.Recommender
	profiles store.ProfileStore
	history  store.HistoryStore

	backend string
	now     func() time.Time
}

// NewHandler arma los handlers. profiles y history pueden ser nil.
func NewHandler(c *catalog.Catalog, rec *recommend.Recommender, profiles store.ProfileStore, history store.HistoryStore, backend string) *Handler {
	if profiles == nil {
		profiles = store.Nop{}
	}
	return &Handler{
		catalog:  c,
		genres:   genre.NewFilter(c),
		rec:      rec,
		profiles: profiles,
		history:  history,
		backend:  backend,
		now:      time.Now,
	}
}

// -----------------------------------------------------------
// Respuestas
// -----------------------------------------------------------

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []survey.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("error codificando respuesta")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: msg}})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// -----------------------------------------------------------
// GET /health
// -----------------------------------------------------------

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"movies":     h.catalog.Len(),
		"similarity": h.catalog.HasMatrix(),
	})
}

// -----------------------------------------------------------
// GET /api/v1/genres
// -----------------------------------------------------------

type genreOption struct {
	Label        string `json:"label"`
	CatalogGenre string `json:"catalog_genre"`
	Movies       int    `json:"movies"`
}

func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	counts := h.genres.Count()

	out := make([]genreOption, len(survey.Genres))
	for i, g := range survey.Genres {
		cg := survey.CatalogGenre(g)
		out[i] = genreOption{Label: g, CatalogGenre: cg, Movies: counts[cg]}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"genres":     out,
		"max_genres": survey.MaxGenres,
		"ages":       survey.AgeBrackets,
	})
}

// -----------------------------------------------------------
// GET /api/v1/movies/similar?title=...&k=5
// -----------------------------------------------------------

func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TITLE", "Debe especificar una película")
		return
	}

	k := recommend.DefaultCount
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxK {
			writeError(w, http.StatusBadRequest, "INVALID_K", "k debe estar entre 1 y "+strconv.Itoa(maxK))
			return
		}
		k = n
	}

	start := time.Now()
	res, err := h.rec.Similar(r.Context(), title, k)
	if err != nil {
		h.writeRecommendError(w, err)
		return
	}

	h.saveHistory(r, title, res, time.Since(start))
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------
// POST /api/v1/profiles
// -----------------------------------------------------------

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var p survey.Profile
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if !h.validProfile(w, &p) {
		return
	}

	p.ID = uuid.NewString()
	p.CreatedAt = h.now().UTC()

	if err := h.profiles.Append(r.Context(), p); err != nil {
		metrics.ProfilesStored.WithLabelValues(h.backend, "error").Inc()
		logging.Error().Err(err).Str("profile_id", p.ID).Msg("error guardando perfil")
		writeError(w, http.StatusInternalServerError, "STORE_FAILED", "No se pudo guardar el perfil")
		return
	}
	metrics.ProfilesStored.WithLabelValues(h.backend, "ok").Inc()

	logging.Info().Str("profile_id", p.ID).Strs("genres", p.PreferredGenres).Msg("perfil creado")
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) validProfile(w http.ResponseWriter, p *survey.Profile) bool {
	err := survey.Validate(p)
	if err == nil {
		return true
	}

	body := errorBody{Code: "VALIDATION_ERROR", Message: err.Error()}
	var verr *survey.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	writeJSON(w, http.StatusBadRequest, map[string]errorBody{"error": body})
	return false
}

// -----------------------------------------------------------
// POST /api/v1/recommendations
// -----------------------------------------------------------

// recommendRequest admite a lo sumo uno de los dos campos.
type recommendRequest struct {
	Movie   *string         `json:"movie,omitempty"`
	Profile *survey.Profile `json:"profile,omitempty"`
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	var (
		in    recommend.Input
		query string
	)
	switch {
	case req.Movie != nil && req.Profile != nil:
		writeError(w, http.StatusBadRequest, "AMBIGUOUS_INPUT", "Envíe movie o profile, no ambos")
		return
	case req.Movie != nil:
		in = recommend.ItemSelection{Title: *req.Movie}
		query = *req.Movie
	case req.Profile != nil:
		if !h.validProfile(w, req.Profile) {
			return
		}
		in = recommend.Survey{PreferredTags: req.Profile.TagSet()}
		query = strings.Join(req.Profile.PreferredGenres, "|")
	}

	start := time.Now()
	res, err := h.rec.Recommend(r.Context(), in)
	if err != nil {
		h.writeRecommendError(w, err)
		return
	}

	if res.Mode != recommend.ModeNone {
		h.saveHistory(r, query, res, time.Since(start))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) writeRecommendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "MOVIE_NOT_FOUND", "Película no encontrada")
	case errors.Is(err, catalog.ErrNoMatrix):
		writeError(w, http.StatusServiceUnavailable, "SIMILARITY_UNAVAILABLE", "La recomendación por similitud no está disponible")
	default:
		logging.Error().Err(err).Msg("error en recomendación")
		writeError(w, http.StatusInternalServerError, "RECOMMEND_FAILED", "Error en recomendación")
	}
}

// saveHistory guarda la recomendación en segundo plano; un fallo solo se loguea.
func (h *Handler) saveHistory(r *http.Request, query string, res recommend.Result, latency time.Duration) {
	if h.history == nil {
		return
	}

	reqID := chimiddleware.GetReqID(r.Context())
	if reqID == "" {
		reqID = uuid.NewString()
	}
	entry := store.HistoryEntry{
		RequestID: reqID,
		Query:     query,
		Result:    res,
		Latency:   latency,
		At:        h.now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.history.Record(ctx, entry); err != nil {
			logging.Warn().Err(err).Str("request_id", entry.RequestID).Msg("error guardando historial")
		}
	}()
}
