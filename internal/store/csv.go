package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"movierec/internal/survey"
)

// CSVProfileStore agrega un perfil por línea, sin cabecera.
type CSVProfileStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVProfileStore(path string) (*CSVProfileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}
	return &CSVProfileStore{path: path}, nil
}

func (s *CSVProfileStore) Append(_ context.Context, p survey.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("abriendo %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(profileRecord(p)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("escribiendo %s: %w", s.path, err)
	}
	return nil
}

// id, contacto, email, teléfono, edad, 3 escalas, géneros separados por "|", fecha
func profileRecord(p survey.Profile) []string {
	return []string{
		p.ID,
		p.ContactMethod,
		p.Email,
		p.Phone,
		p.Age,
		strconv.Itoa(p.StorylineImportance),
		strconv.Itoa(p.ComplexCharacters),
		strconv.Itoa(p.MovieFrequency),
		strings.Join(p.PreferredGenres, "|"),
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
