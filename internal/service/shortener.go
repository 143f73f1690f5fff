package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/events"
	"github.com/notshort/notshort/internal/model"
	"github.com/notshort/notshort/internal/repositories"
	"github.com/notshort/notshort/internal/util"
)

const slugAttempts = 5

// ShortenerService owns slug generation, management and resolution.
type ShortenerService struct {
	URLs      repositories.URLRepositoryInterface
	VisitRepo repositories.VisitRepositoryInterface
	Publisher events.Publisher
	Logger    *zap.Logger

	Alphabet  string
	MinLength int
}

// NewShortenerService creates a ShortenerService.
func NewShortenerService(urls repositories.URLRepositoryInterface, visits repositories.VisitRepositoryInterface, pub events.Publisher, logger *zap.Logger, alphabet string, minLength int) *ShortenerService {
	return &ShortenerService{
		URLs:      urls,
		VisitRepo: visits,
		Publisher: pub,
		Logger:    logger,
		Alphabet:  alphabet,
		MinLength: minLength,
	}
}

// attemptLength grows the candidate length as retries are consumed:
// min, min, min+1, min+1, min+2 for the five attempts.
func (s *ShortenerService) attemptLength(attempt int) int {
	return s.MinLength + attempt/2
}

// Create returns the record for a long URL, generating a slug when the
// URL has none yet. The second result is false when an existing record
// was reused (idempotent create).
func (s *ShortenerService) Create(ctx context.Context, userID, longURL string) (*model.ShortURL, bool, error) {
	existing, err := s.URLs.GetByURL(ctx, longURL)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		candidate := util.RandomSlug(s.Alphabet, s.attemptLength(attempt))

		taken, err := s.URLs.GetBySlug(ctx, candidate)
		if err != nil {
			return nil, false, err
		}
		if taken != nil {
			continue
		}

		rec := &model.ShortURL{
			ID:     uuid.NewString(),
			Slug:   candidate,
			URL:    longURL,
			UserID: userID,
		}
		err = s.URLs.SaveShortURL(ctx, rec)
		if err == nil {
			return rec, true, nil
		}
		// A concurrent request inserted the same slug between the check
		// and the insert; the constraint violation is just a collision.
		if errors.Is(err, repositories.ErrSlugTaken) {
			continue
		}
		return nil, false, err
	}
	return nil, false, ErrSlugExhausted
}

// List returns the caller's slug records.
func (s *ShortenerService) List(ctx context.Context, userID string) ([]*model.ShortURL, error) {
	return s.URLs.ListByUser(ctx, userID)
}

// Update rewrites the URL and optionally the slug of a record the caller
// owns. Returns ErrSlugInUse when the requested slug belongs to a
// different record, and the untouched record when nothing would change.
func (s *ShortenerService) Update(ctx context.Context, userID string, req model.UpdateRequest) (*model.ShortURL, bool, error) {
	rec, err := s.URLs.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, false, err
	}
	if rec == nil || rec.UserID != userID {
		return nil, false, ErrSlugNotFound
	}

	// An omitted URL keeps the current one; the request may rename only.
	if req.UpdatedURL == "" {
		req.UpdatedURL = rec.URL
	}

	if req.UpdatedSlug != "" {
		conflict, err := s.URLs.GetBySlug(ctx, req.UpdatedSlug)
		if err != nil {
			return nil, false, err
		}
		if conflict != nil && conflict.Slug != req.Slug {
			return nil, false, ErrSlugInUse
		}
	}

	if rec.URL == req.UpdatedURL && req.UpdatedSlug == "" {
		return rec, false, nil
	}

	updated, err := s.URLs.UpdateShortURL(ctx, req.Slug, req.UpdatedURL, req.UpdatedSlug)
	if err != nil {
		if errors.Is(err, repositories.ErrSlugTaken) {
			return nil, false, ErrSlugInUse
		}
		return nil, false, err
	}
	if updated == nil {
		return nil, false, ErrSlugNotFound
	}
	return updated, true, nil
}

// Delete removes a slug the caller owns. Visits cascade away with the
// record. Unknown and foreign slugs are silently ignored so the
// operation stays idempotent.
func (s *ShortenerService) Delete(ctx context.Context, userID, slug string) error {
	rec, err := s.URLs.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if rec == nil || rec.UserID != userID {
		return nil
	}
	return s.URLs.DeleteBySlug(ctx, slug)
}

// Visits returns the caller's visit records across all slugs.
func (s *ShortenerService) Visits(ctx context.Context, userID string) ([]*model.Visit, error) {
	return s.VisitRepo.ListByUser(ctx, userID)
}

// VisitsBySlug returns the visits of one slug the caller owns.
func (s *ShortenerService) VisitsBySlug(ctx context.Context, userID, slug string) ([]*model.Visit, error) {
	rec, err := s.URLs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != userID {
		return nil, ErrSlugNotFound
	}
	return s.VisitRepo.ListByShortURL(ctx, rec.ID)
}

// Resolve looks a slug up for redirecting.
func (s *ShortenerService) Resolve(ctx context.Context, slug string) (*model.ShortURL, error) {
	rec, err := s.URLs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrSlugNotFound
	}
	return rec, nil
}

// EmitVisit publishes a visit event without blocking the caller. The
// redirect must not wait on, or fail because of, the broker; publish
// errors are only logged.
func (s *ShortenerService) EmitVisit(rec *model.ShortURL, sourceIP, userAgent string) {
	if s.Publisher == nil {
		return
	}
	event := model.VisitEvent{
		Source:     model.EventSource,
		DetailType: model.EventDetailType,
		Slug:       rec.Slug,
		LongURL:    rec.URL,
		SourceIP:   sourceIP,
		UserAgent:  userAgent,
		Timestamp:  time.Now().Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Publisher.PublishVisit(ctx, event); err != nil {
			s.Logger.Error("failed to publish visit event",
				zap.String("slug", event.Slug), zap.Error(err))
		}
	}()
}
