// Package poster resuelve la URL del póster de una película contra la API
// de TMDB.
package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"movierec/internal/logging"
	"movierec/internal/metrics"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	// Placeholders fijos: uno para "sin imagen" y otro para errores.
	NoImageURL = "https://via.placeholder.com/500x750?text=No+Image"
	ErrorURL   = "https://via.placeholder.com/500x750?text=Error"

	breakerName = "tmdb-api"
)

var ErrNoAPIKey = errors.New("poster: API key de TMDB no configurada")

type Config struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Language     string
	NoImageURL   string

	// Timeout por búsqueda
	Timeout time.Duration

	// El breaker abre tras BreakerFailures fallos seguidos y espera
	// BreakerCooldown antes de volver a probar.
	BreakerFailures uint32
	BreakerCooldown time.Duration

	HTTPClient *http.Client
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ImageBaseURL == "" {
		c.ImageBaseURL = DefaultImageBaseURL
	}
	if c.Language == "" {
		c.Language = "en-US"
	}
	if c.NoImageURL == "" {
		c.NoImageURL = NoImageURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Second
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 30 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
}

type TMDBClient struct {
	cfg Config
	cb  *gobreaker.CircuitBreaker[string]
}

type movieResponse struct {
	PosterPath string `json:"poster_path"`
}

func NewTMDBClient(cfg Config) *TMDBClient {
	cfg.applyDefaults()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// una cancelación del cliente no dice nada de TMDB
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cambio de estado del circuit breaker")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &TMDBClient{cfg: cfg, cb: cb}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Resolve devuelve la URL del póster. Si TMDB no tiene póster devuelve el
// placeholder de "sin imagen" sin error; cualquier otro problema es error y
// queda a cargo del llamador reemplazarlo.
func (c *TMDBClient) Resolve(ctx context.Context, movieID int) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	start := time.Now()
	defer func() {
		metrics.PosterLookupDuration.Observe(time.Since(start).Seconds())
	}()

	return c.cb.Execute(func() (string, error) {
		return c.fetch(ctx, movieID)
	})
}

func (c *TMDBClient) fetch(ctx context.Context, movieID int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.movieURL(movieID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("poster: película %d: %w", movieID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return c.cfg.NoImageURL, nil
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("poster: película %d: status %d", movieID, resp.StatusCode)
	}

	var body movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("poster: película %d: respuesta inválida: %w", movieID, err)
	}

	if body.PosterPath == "" {
		return c.cfg.NoImageURL, nil
	}
	return JoinImageURL(c.cfg.ImageBaseURL, body.PosterPath), nil
}

func (c *TMDBClient) movieURL(movieID int) string {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("language", c.cfg.Language)
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/movie/" + strconv.Itoa(movieID) + "?" + q.Encode()
}

// JoinImageURL une la base de imágenes con poster_path ("/abc.jpg").
func JoinImageURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
