// Package config carga la configuración del servicio en capas:
// valores por defecto, archivo YAML opcional y variables de entorno.
//
// Variables de entorno: MOVIEREC_<SECCION>_<CAMPO>, por ejemplo
// MOVIEREC_POSTER_API_KEY o MOVIEREC_SERVER_ADDR. Un archivo .env en el
// directorio de trabajo se carga antes, sin pisar variables ya definidas.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix     = "MOVIEREC_"
	ConfigPathEnv = "CONFIG_PATH"
)

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	Poster   PosterConfig   `koanf:"poster"`
	Profiles ProfilesConfig `koanf:"profiles"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       int           `koanf:"rate_limit"` // requests por minuto e IP, 0 = sin límite
	CORSOrigins     []string      `koanf:"cors_origins"`
}

type DataConfig struct {
	// Artifact tiene prioridad sobre el par de CSV.
	Artifact   string `koanf:"artifact"`
	MoviesCSV  string `koanf:"movies_csv"`
	Similarity string `koanf:"similarity_csv"`
}

type PosterConfig struct {
	APIKey          string        `koanf:"api_key"`
	BaseURL         string        `koanf:"base_url"`
	ImageBaseURL    string        `koanf:"image_base_url"`
	Language        string        `koanf:"language"`
	Timeout         time.Duration `koanf:"timeout"`
	NoImageURL      string        `koanf:"no_image_url"`
	ErrorURL        string        `koanf:"error_url"`
	Workers         int           `koanf:"workers"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

type ProfilesConfig struct {
	// Backend: csv, mongo, both o none
	Backend string `koanf:"backend"`
	CSVPath string `koanf:"csv_path"`
}

type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
	// History guarda cada recomendación servida en la colección recommendations.
	History bool `koanf:"history"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       120,
			CORSOrigins:     []string{"*"},
		},
		Data: DataConfig{
			MoviesCSV:  "data/clean/movies.csv",
			Similarity: "data/model/similarity.csv",
		},
		Poster: PosterConfig{
			BaseURL:         "https://api.themoviedb.org/3",
			ImageBaseURL:    "https://image.tmdb.org/t/p/w500",
			Language:        "en-US",
			Timeout:         3 * time.Second,
			NoImageURL:      "https://via.placeholder.com/500x750?text=No+Image",
			ErrorURL:        "https://via.placeholder.com/500x750?text=Error",
			Workers:         5,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Profiles: ProfilesConfig{
			Backend: "csv",
			CSVPath: "user_profiles.csv",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "movierec",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load arma la configuración. path puede ser vacío: se usa CONFIG_PATH o
// el primer archivo de DefaultConfigPaths que exista.
func Load(path string) (*Config, error) {
	// .env es opcional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("leyendo .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("cargando valores por defecto: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("cargando %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("cargando variables de entorno: %w", err)
	}

	// listas por entorno: "a,b,c"
	if v, ok := k.Get("server.cors_origins").(string); ok {
		if err := k.Set("server.cors_origins", splitList(v)); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decodificando configuración: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// MOVIEREC_POSTER_API_KEY -> poster.api_key
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + field
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate revisa valores que no tienen sentido para el servicio.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr es obligatorio"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit no puede ser negativo"))
	}
	if c.Data.Artifact == "" && c.Data.MoviesCSV == "" {
		errs = append(errs, errors.New("data.artifact o data.movies_csv es obligatorio"))
	}
	if c.Poster.Timeout <= 0 {
		errs = append(errs, errors.New("poster.timeout debe ser positivo"))
	}
	if c.Poster.Workers < 0 {
		errs = append(errs, errors.New("poster.workers no puede ser negativo"))
	}

	switch c.Profiles.Backend {
	case "csv", "both":
		if c.Profiles.CSVPath == "" {
			errs = append(errs, errors.New("profiles.csv_path es obligatorio para el backend csv"))
		}
	case "mongo", "none":
	default:
		errs = append(errs, fmt.Errorf("profiles.backend desconocido: %q", c.Profiles.Backend))
	}

	if c.UsesMongo() && c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri es obligatorio"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("configuración inválida: %w", err)
	}
	return nil
}

// UsesMongo indica si algún componente necesita la conexión a MongoDB.
func (c *Config) UsesMongo() bool {
	return c.Profiles.Backend == "mongo" || c.Profiles.Backend == "both" || c.Mongo.History
}
