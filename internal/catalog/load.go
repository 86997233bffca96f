package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"movierec/pkg/artifact"
)

// noGenres es el valor de MovieLens para películas sin género.
const noGenres = "(no genres listed)"

// ---------------------------------------------------------
// Carga de películas: movieId,title,genres (géneros separados por "|")
// ---------------------------------------------------------

// ReadMovies lee el CSV limpio de películas. La cabecera es opcional.
// A diferencia de los ratings, una fila inválida es un error: saltarla
// desplazaría todas las posiciones respecto de la matriz.
func ReadMovies(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var items []Item
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leyendo películas: %w", err)
		}
		line++

		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 2 columnas", line)
		}

		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue // cabecera
			}
			return nil, fmt.Errorf("línea %d: movieId inválido %q", line, rec[0])
		}

		item := Item{ID: id, Title: rec[1]}
		if len(rec) > 2 {
			item.Tags = ParseGenres(rec[2])
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseGenres separa "Action|Drama" en etiquetas.
func ParseGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == noGenres {
		return nil
	}
	parts := strings.Split(raw, "|")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func LoadMovies(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMovies(f)
}

// ---------------------------------------------------------
// Carga de la matriz: una fila por película, sin cabecera
// ---------------------------------------------------------

func ReadMatrix(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var matrix [][]float64
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leyendo matriz: %w", err)
		}

		row := make([]float64, len(rec))
		for j, v := range rec {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("matriz fila %d columna %d: %w", len(matrix), j, err)
			}
			row[j] = f
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}

func LoadMatrix(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMatrix(f)
}

// ---------------------------------------------------------
// Puntos de entrada para el proceso
// ---------------------------------------------------------

// LoadCSV arma el catálogo desde movies.csv y, si matrixPath no es vacío,
// desde similarity.csv.
func LoadCSV(moviesPath, matrixPath string) (*Catalog, error) {
	items, err := LoadMovies(moviesPath)
	if err != nil {
		return nil, fmt.Errorf("cargando %s: %w", moviesPath, err)
	}

	var matrix [][]float64
	if matrixPath != "" {
		matrix, err = LoadMatrix(matrixPath)
		if err != nil {
			return nil, fmt.Errorf("cargando %s: %w", matrixPath, err)
		}
		// un archivo vacío no es "sin matriz": se pidió una y no vino
		if len(matrix) == 0 && len(items) > 0 {
			return nil, fmt.Errorf("cargando %s: %w: archivo vacío", matrixPath, ErrMisaligned)
		}
	}

	return New(items, matrix)
}

// LoadArtifact carga un catálogo empaquetado con WriteArtifact.
func LoadArtifact(path string) (*Catalog, error) {
	var snap Snapshot
	if err := artifact.ReadFile(path, &snap); err != nil {
		return nil, err
	}
	// gob no distingue entre matriz nil y vacía
	if len(snap.Matrix) == 0 {
		snap.Matrix = nil
	}
	return New(snap.Items, snap.Matrix)
}

func WriteArtifact(path string, c *Catalog) error {
	return artifact.WriteFile(path, c.Snapshot())
}
