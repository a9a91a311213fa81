package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/salonbook/internal/domain"
	"github.com/vbonduro/salonbook/internal/validate"
)

// InvalidElement is one rejected element of an import batch.
type InvalidElement struct {
	Index int
	Err   *validate.ValidationError
}

// ImportError lists every invalid element of a batch. Nothing is stored when
// it is returned.
type ImportError struct {
	Elements []InvalidElement
}

func (e *ImportError) Error() string {
	parts := make([]string, 0, len(e.Elements))
	for _, el := range e.Elements {
		parts = append(parts, fmt.Sprintf("[%d] %v", el.Index, el.Err))
	}
	return fmt.Sprintf("%d invalid element(s): %s", len(e.Elements), strings.Join(parts, "; "))
}

// ErrUnknownCollection is returned for collections that cannot be imported.
var ErrUnknownCollection = errors.New("collection cannot be imported")

type ImportService struct {
	docs   documentWriter
	logger *slog.Logger
}

func NewImportService(docs documentWriter, logger *slog.Logger) *ImportService {
	return &ImportService{docs: docs, logger: logger}
}

// Import validates the whole batch for collection first and only then inserts
// the elements, returning their ids in input order. Reviews and gallery items
// can be imported.
func (s *ImportService) Import(ctx context.Context, collection string, batch []map[string]any) ([]string, error) {
	check, err := importValidator(collection)
	if err != nil {
		return nil, err
	}

	docs := make([]any, 0, len(batch))
	var invalid []InvalidElement
	for i, raw := range batch {
		doc, err := check(raw)
		if err != nil {
			var verr *validate.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			invalid = append(invalid, InvalidElement{Index: i, Err: verr})
			continue
		}
		docs = append(docs, doc)
	}
	if len(invalid) > 0 {
		return nil, &ImportError{Elements: invalid}
	}

	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		id, err := s.docs.Insert(ctx, collection, doc)
		if err != nil {
			return ids, fmt.Errorf("failed to insert element %d: %w", i, err)
		}
		ids = append(ids, id)
	}

	s.logger.Info("import complete", "collection", collection, "inserted", len(ids))
	return ids, nil
}

func importValidator(collection string) (func(map[string]any) (any, error), error) {
	switch collection {
	case domain.CollectionReview:
		return func(raw map[string]any) (any, error) { return validate.Review(raw) }, nil
	case domain.CollectionGalleryItem:
		return func(raw map[string]any) (any, error) { return validate.GalleryItem(raw) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
}
