package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/observability"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/viewer"
)

// Kind names a view-counted entity.
type Kind string

const (
	KindPoem   Kind = "poem"
	KindAuthor Kind = "author"
	KindTheme  Kind = "theme"
)

func (k Kind) counter() repo.Counter {
	switch k {
	case KindAuthor:
		return repo.AuthorViews
	case KindTheme:
		return repo.ThemeViews
	default:
		return repo.PoemViews
	}
}

func (k Kind) notFound() error {
	switch k {
	case KindAuthor:
		return ErrAuthorNotFound
	case KindTheme:
		return ErrThemeNotFound
	default:
		return ErrPoemNotFound
	}
}

// seenKey is the viewer-context key holding the ids already counted.
func (k Kind) seenKey() string { return "viewed_" + string(k) + "s" }

const likedPoemsKey = "liked_poems"

// ViewTracker increments an entity's counter at most once per viewer.
type ViewTracker struct {
	DB    *gorm.DB
	Store viewer.Store
}

// RecordView counts a detail view of (kind, id) by viewerID. It returns the
// counter after the call and whether this call incremented it. A missing
// entity yields the kind's not-found error and leaves the viewer untouched.
// Without a viewer id, or when the viewer store fails, nothing is counted.
func (v *ViewTracker) RecordView(ctx context.Context, kind Kind, id uint, viewerID string) (int64, bool, error) {
	tr := otel.Tracer("services/ViewTracker")
	ctx, span := tr.Start(ctx, "RecordView",
		trace.WithAttributes(
			attribute.String("entity.kind", string(kind)),
			attribute.Int64("entity.id", int64(id)),
		),
	)
	defer span.End()

	n, counted, err := v.once(ctx, string(kind), kind.counter(), kind.seenKey(), id, viewerID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, false, kind.notFound()
	}
	if err != nil {
		return 0, false, err
	}
	span.SetAttributes(attribute.Bool("view.counted", counted))
	return n, counted, nil
}

// RecordLike adds a like to a poem at most once per viewer.
func (v *ViewTracker) RecordLike(ctx context.Context, poemID uint, viewerID string) (int64, bool, error) {
	n, counted, err := v.once(ctx, "like", repo.PoemLikes, likedPoemsKey, poemID, viewerID)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, false, ErrPoemNotFound
	}
	return n, counted, err
}

func (v *ViewTracker) once(ctx context.Context, label string, c repo.Counter, seenKey string, id uint, viewerID string) (int64, bool, error) {
	cur, err := repo.GetCounter(ctx, v.DB, c, id)
	if err != nil {
		return 0, false, err
	}
	if viewerID == "" || v.Store == nil {
		observability.ViewsSkipped.WithLabelValues(label, "no_viewer").Inc()
		return cur, false, nil
	}

	member := strconv.FormatUint(uint64(id), 10)
	added, err := v.Store.Add(ctx, viewerID, seenKey, member)
	if err != nil {
		log.Warn().Err(err).Str("key", seenKey).Msg("viewer store unavailable; not counting")
		observability.ViewsSkipped.WithLabelValues(label, "store_error").Inc()
		return cur, false, nil
	}
	if !added {
		observability.ViewsSkipped.WithLabelValues(label, "seen").Inc()
		return cur, false, nil
	}

	n, err := repo.IncrementCounter(ctx, v.DB, c, id)
	if err != nil {
		// forget the id so a later view still counts
		if rerr := v.Store.Remove(ctx, viewerID, seenKey, member); rerr != nil {
			log.Warn().Err(rerr).Str("key", seenKey).Msg("viewer store: could not forget an uncounted id")
		}
		return 0, false, err
	}
	observability.ViewsCounted.WithLabelValues(label).Inc()
	return n, true, nil
}
