package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/salonbook/internal/domain"
	"github.com/vbonduro/salonbook/internal/store"
	"github.com/vbonduro/salonbook/internal/validate"
)

// documentLister is the subset of store.DocumentStore that ReviewService requires.
type documentLister interface {
	ListAll(ctx context.Context, collection string) ([]store.Record, error)
}

type ReviewService struct {
	docs   documentLister
	logger *slog.Logger
}

func NewReviewService(docs documentLister, logger *slog.Logger) *ReviewService {
	return &ReviewService{docs: docs, logger: logger}
}

// List returns the stored reviews, or FallbackReviews when none can be read.
func (s *ReviewService) List(ctx context.Context) []domain.PublicReview {
	return ReadWithFallback(ctx, s.logger, "reviews", s.listStored, FallbackReviews)
}

func (s *ReviewService) listStored(ctx context.Context) ([]domain.PublicReview, error) {
	records, err := s.docs.ListAll(ctx, domain.CollectionReview)
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.PublicReview, 0, len(records))
	for _, rec := range records {
		review, err := normalizeReview(rec)
		if err != nil {
			return nil, fmt.Errorf("review %v: %w", rec["_id"], err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// normalizeReview maps a stored record to the public shape. Missing name and
// text become "", a missing rating becomes 5 and a missing avatar_url null.
func normalizeReview(rec store.Record) (domain.PublicReview, error) {
	name, err := optionalText(rec, "name")
	if err != nil {
		return domain.PublicReview{}, err
	}
	text, err := optionalText(rec, "text")
	if err != nil {
		return domain.PublicReview{}, err
	}

	rating := 5
	if v, ok := rec["rating"]; ok {
		r, ok := validate.TruncInt(v)
		if !ok {
			return domain.PublicReview{}, fmt.Errorf("rating %v is not an integer", v)
		}
		rating = r
	}

	var avatar *string
	switch v := rec["avatar_url"].(type) {
	case nil:
	case string:
		avatar = &v
	default:
		return domain.PublicReview{}, fmt.Errorf("avatar_url has type %T", v)
	}

	return domain.PublicReview{Name: name, Text: text, Rating: rating, AvatarURL: avatar}, nil
}

func optionalText(rec store.Record, key string) (string, error) {
	switch v := rec[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%s has type %T", key, v)
	}
}

// FallbackReviews returns the hand-written reviews shown when the store has none.
func FallbackReviews() []domain.PublicReview {
	return []domain.PublicReview{
		{Name: "Ana M.", Text: "Servicii impecabile și o atmosferă deosebită.", Rating: 5},
		{Name: "Ioana P.", Text: "Cel mai frumos salon din Brașov! Recomand cu drag.", Rating: 5},
		{Name: "Maria C.", Text: "Profesionalism și multă grijă pentru detalii.", Rating: 5},
	}
}
