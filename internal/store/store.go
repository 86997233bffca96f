// Package store guarda los perfiles de la encuesta y el historial de
// recomendaciones. Solo se escribe: el servicio nunca lee de vuelta.
package store

import (
	"context"
	"errors"
	"time"

	"movierec/internal/recommend"
	"movierec/internal/survey"
)

type ProfileStore interface {
	Append(ctx context.Context, p survey.Profile) error
}

type HistoryStore interface {
	Record(ctx context.Context, e HistoryEntry) error
}

// HistoryEntry es una recomendación ya servida.
type HistoryEntry struct {
	RequestID string
	Query     string
	Result    recommend.Result
	Latency   time.Duration
	At        time.Time
}

// ---------------------------------------------------------
// Sin persistencia
// ---------------------------------------------------------

type Nop struct{}

func (Nop) Append(context.Context, survey.Profile) error { return nil }
func (Nop) Record(context.Context, HistoryEntry) error   { return nil }

// ---------------------------------------------------------
// Varios destinos: se escribe en todos y se juntan los errores
// ---------------------------------------------------------

type MultiProfileStore []ProfileStore

func (m MultiProfileStore) Append(ctx context.Context, p survey.Profile) error {
	var errs []error
	for _, s := range m {
		if err := s.Append(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
