package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"movierec/internal/catalog"
	"movierec/internal/genre"
	"movierec/internal/knn"
	"movierec/internal/logging"
	"movierec/internal/metrics"
)

const (
	DefaultCount         = 5
	DefaultPosterTimeout = 3 * time.Second
	DefaultPlaceholder   = "https://via.placeholder.com/500x750?text=Error"
	DefaultNoImage       = "https://via.placeholder.com/500x750?text=No+Image"
)

type Options struct {
	// Count es el tamaño de la recomendación (5 por defecto).
	Count int

	// Placeholder reemplaza al póster cuando la búsqueda falla.
	Placeholder string

	// NoImageURL es la URL que devuelve el resolvedor cuando la película
	// existe pero no tiene póster; se cuenta aparte de los aciertos.
	NoImageURL string

	// PosterTimeout acota cada búsqueda de póster.
	PosterTimeout time.Duration

	// PosterWorkers limita las búsquedas en paralelo; 0 = una por película.
	PosterWorkers int
}

// Recommender despacha la entrada al índice de similitud o al filtro de
// géneros y completa cada película con su póster.
type Recommender struct {
	index   *knn.Index
	filter  *genre.Filter
	posters PosterResolver
	opts    Options
}

func New(index *knn.Index, filter *genre.Filter, posters PosterResolver, opts Options) *Recommender {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.NoImageURL == "" {
		opts.NoImageURL = DefaultNoImage
	}
	if opts.PosterTimeout <= 0 {
		opts.PosterTimeout = DefaultPosterTimeout
	}
	return &Recommender{index: index, filter: filter, posters: posters, opts: opts}
}

// Recommend devuelve la recomendación para in. Sin entrada devuelve un
// resultado vacío sin error. Un título inexistente devuelve catalog.ErrNotFound.
func (r *Recommender) Recommend(ctx context.Context, in Input) (Result, error) {
	switch v := in.(type) {
	case ItemSelection:
		return r.Similar(ctx, v.Title, r.opts.Count)
	case *ItemSelection:
		if v == nil {
			return r.empty(), nil
		}
		return r.Similar(ctx, v.Title, r.opts.Count)
	case Survey:
		return r.ByGenres(ctx, v.PreferredTags)
	case *Survey:
		if v == nil {
			return r.empty(), nil
		}
		return r.ByGenres(ctx, v.PreferredTags)
	default:
		return r.empty(), nil
	}
}

func (r *Recommender) empty() Result {
	metrics.RecommendationsTotal.WithLabelValues(string(ModeNone)).Inc()
	return Result{Mode: ModeNone, Items: []Recommendation{}}
}

// Similar devuelve las k películas más parecidas a title.
func (r *Recommender) Similar(ctx context.Context, title string, k int) (Result, error) {
	start := time.Now()

	items, err := r.index.NearestNeighbors(title, k)
	if err != nil {
		return Result{}, err
	}

	res := Result{Mode: ModeSimilar, Items: r.withPosters(ctx, items)}
	r.observe(res.Mode, start)
	return res, nil
}

// ByGenres devuelve las primeras películas del catálogo con algún género
// de tags.
func (r *Recommender) ByGenres(ctx context.Context, tags catalog.TagSet) (Result, error) {
	start := time.Now()

	items := r.filter.FilterByTags(tags, r.opts.Count)

	res := Result{Mode: ModeSurvey, Items: r.withPosters(ctx, items)}
	r.observe(res.Mode, start)
	return res, nil
}

func (r *Recommender) observe(mode Mode, start time.Time) {
	metrics.RecommendationsTotal.WithLabelValues(string(mode)).Inc()
	metrics.RecommendationDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
}

// withPosters busca los pósters en paralelo. Cada goroutine escribe en su
// propio índice, así el orden de salida es el del ranking.
func (r *Recommender) withPosters(ctx context.Context, items []catalog.Item) []Recommendation {
	out := make([]Recommendation, len(items))

	var g errgroup.Group
	if r.opts.PosterWorkers > 0 {
		g.SetLimit(r.opts.PosterWorkers)
	}

	for i, it := range items {
		i, it := i, it
		out[i] = Recommendation{ID: it.ID, Title: it.Title}
		g.Go(func() error {
			out[i].PosterURL = r.poster(ctx, it.ID)
			return nil
		})
	}
	g.Wait()

	return out
}

func (r *Recommender) poster(ctx context.Context, movieID int) string {
	if r.posters == nil {
		metrics.PosterLookups.WithLabelValues("placeholder").Inc()
		return r.opts.Placeholder
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.PosterTimeout)
	defer cancel()

	url, err := r.posters.Resolve(ctx, movieID)
	if err != nil || url == "" {
		logging.Warn().Err(err).Int("movie_id", movieID).Msg("no se pudo obtener el póster, se usa placeholder")
		metrics.PosterLookups.WithLabelValues("placeholder").Inc()
		return r.opts.Placeholder
	}

	if url == r.opts.NoImageURL {
		metrics.PosterLookups.WithLabelValues("no_image").Inc()
		return url
	}

	metrics.PosterLookups.WithLabelValues("ok").Inc()
	return url
}
