package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"movierec/internal/api"
	"movierec/internal/catalog"
	"movierec/internal/config"
	"movierec/internal/genre"
	"movierec/internal/knn"
	"movierec/internal/logging"
	"movierec/internal/metrics"
	"movierec/internal/poster"
	"movierec/internal/recommend"
	"movierec/internal/store"
	"movierec/pkg/database"
)

func main() {
	configPath := flag.String("config", "", "archivo de configuración YAML")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("error cargando configuración")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------------------------------------
	// Catálogo y matriz de similitud
	// --------------------------------------------------

	cat, err := loadCatalog(cfg.Data)
	if err != nil {
		logging.Fatal().Err(err).Msg("no se pudo cargar el catálogo")
	}
	if cat.Len() == 0 {
		logging.Fatal().Msg("el catálogo está vacío")
	}
	metrics.CatalogSize.Set(float64(cat.Len()))

	logging.Info().Int("movies", cat.Len()).Bool("similarity", cat.HasMatrix()).Msg("catálogo cargado")
	if !cat.HasMatrix() {
		logging.Warn().Msg("sin matriz de similitud: solo recomendación por encuesta")
	}

	// --------------------------------------------------
	// Pósters
	// --------------------------------------------------

	if cfg.Poster.APIKey == "" {
		logging.Warn().Msg("sin API key de TMDB: se mostrarán placeholders")
	}
	posters := poster.NewTMDBClient(poster.Config{
		BaseURL:         cfg.Poster.BaseURL,
		ImageBaseURL:    cfg.Poster.ImageBaseURL,
		APIKey:          cfg.Poster.APIKey,
		Language:        cfg.Poster.Language,
		NoImageURL:      cfg.Poster.NoImageURL,
		Timeout:         cfg.Poster.Timeout,
		BreakerFailures: cfg.Poster.BreakerFailures,
		BreakerCooldown: cfg.Poster.BreakerCooldown,
	})

	rec := recommend.New(knn.NewIndex(cat), genre.NewFilter(cat), posters, recommend.Options{
		Placeholder:   cfg.Poster.ErrorURL,
		NoImageURL:    cfg.Poster.NoImageURL,
		PosterTimeout: cfg.Poster.Timeout,
		PosterWorkers: cfg.Poster.Workers,
	})

	// --------------------------------------------------
	// Conexión a MongoDB (opcional)
	// --------------------------------------------------

	var db *database.DB
	if cfg.UsesMongo() {
		logging.Info().Str("uri", cfg.Mongo.URI).Msg("conectando a MongoDB")

		db, err = database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			logging.Fatal().Err(err).Msg("error conectando a MongoDB")
		}
		defer db.Disconnect(context.Background())

		logging.Info().Msg("conexión a MongoDB lista")
	}

	profiles, err := profileStore(cfg.Profiles, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("error preparando almacenamiento de perfiles")
	}

	var history store.HistoryStore
	if cfg.Mongo.History {
		history = store.NewMongoHistoryStore(db)
	}

	// --------------------------------------------------
	// Servidor HTTP
	// --------------------------------------------------

	h := api.NewHandler(cat, rec, profiles, history, cfg.Profiles.Backend)
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewRouter(h, api.RouterOptions{
			RateLimit:   cfg.Server.RateLimit,
			CORSOrigins: cfg.Server.CORSOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("API escuchando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("error en servidor HTTP")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("error apagando servidor")
	}
}

func loadCatalog(cfg config.DataConfig) (*catalog.Catalog, error) {
	if cfg.Artifact != "" {
		logging.Info().Str("artifact", cfg.Artifact).Msg("cargando artefacto del catálogo")
		return catalog.LoadArtifact(cfg.Artifact)
	}

	// sin similarity.csv la API arranca igual, solo con recomendación por encuesta
	similarity := cfg.Similarity
	if similarity != "" {
		if _, err := os.Stat(similarity); errors.Is(err, os.ErrNotExist) {
			logging.Warn().Str("similarity", similarity).Msg("no existe la matriz de similitud")
			similarity = ""
		}
	}

	logging.Info().Str("movies", cfg.MoviesCSV).Str("similarity", similarity).Msg("cargando catálogo desde CSV")
	return catalog.LoadCSV(cfg.MoviesCSV, similarity)
}

func profileStore(cfg config.ProfilesConfig, db *database.DB) (store.ProfileStore, error) {
	switch cfg.Backend {
	case "csv":
		return store.NewCSVProfileStore(cfg.CSVPath)
	case "mongo":
		return store.NewMongoProfileStore(db), nil
	case "both":
		csvStore, err := store.NewCSVProfileStore(cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		return store.MultiProfileStore{csvStore, store.NewMongoProfileStore(db)}, nil
	default:
		return store.Nop{}, nil
	}
}
