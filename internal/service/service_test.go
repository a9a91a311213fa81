package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/salonbook/internal/db"
	"github.com/vbonduro/salonbook/internal/domain"
	"github.com/vbonduro/salonbook/internal/store"
	"github.com/vbonduro/salonbook/internal/validate"
)

// stubStore is a minimal document store for tests.
type stubStore struct {
	records   []store.Record
	listErr   error
	insertErr error
	inserted  []any
	status    store.Status
}

func (s *stubStore) ListAll(_ context.Context, _ string) ([]store.Record, error) {
	return s.records, s.listErr
}

func (s *stubStore) Insert(_ context.Context, _ string, doc any) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	s.inserted = append(s.inserted, doc)
	return "id-1", nil
}

func (s *stubStore) Status(_ context.Context) store.Status {
	return s.status
}

func newSQLiteStore(t *testing.T) *store.DocumentStore {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "salon.db"))
	require.NoError(t, err)
	s := store.NewDocumentStore(d, "salon")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadWithFallback(t *testing.T) {
	fallback := func() []int { return []int{9, 9, 9} }
	ctx := context.Background()

	tests := []struct {
		name    string
		primary func(context.Context) ([]int, error)
		want    []int
	}{
		{
			name:    "primary results",
			primary: func(context.Context) ([]int, error) { return []int{1, 2}, nil },
			want:    []int{1, 2},
		},
		{
			name:    "empty",
			primary: func(context.Context) ([]int, error) { return nil, nil },
			want:    []int{9, 9, 9},
		},
		{
			name: "error",
			primary: func(context.Context) ([]int, error) {
				return []int{1}, &store.StorageError{Op: "list", Err: errors.New("connection refused")}
			},
			want: []int{9, 9, 9},
		},
		{
			name: "disabled",
			primary: func(context.Context) ([]int, error) {
				return nil, &store.StorageError{Op: "list", Err: store.ErrDisabled}
			},
			want: []int{9, 9, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadWithFallback(ctx, slog.Default(), "numbers", tt.primary, fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReviewServiceFallback(t *testing.T) {
	tests := []struct {
		name string
		docs documentLister
	}{
		{name: "disabled store", docs: store.Disabled()},
		{name: "store error", docs: &stubStore{listErr: &store.StorageError{Op: "list review", Err: errors.New("timeout")}}},
		{name: "empty store", docs: &stubStore{records: []store.Record{}}},
		{name: "unusable record", docs: &stubStore{records: []store.Record{{"name": "X", "rating": "five"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReviewService(tt.docs, slog.Default())

			reviews := svc.List(context.Background())

			require.Len(t, reviews, 3)
			assert.Equal(t, FallbackReviews(), reviews)
			for _, r := range reviews {
				assert.Equal(t, 5, r.Rating)
				assert.Nil(t, r.AvatarURL)
			}
		})
	}
}

func TestReviewServiceNormalizesRecords(t *testing.T) {
	avatar := "https://cdn.example.com/elena.jpg"
	docs := &stubStore{records: []store.Record{
		{"_id": "a", "name": "Elena", "text": "Minunat", "rating": json.Number("4"), "avatar_url": avatar},
		{"_id": "b", "name": "Irina", "rating": json.Number("3.0")},
		{"_id": "c", "text": "Fără nume", "rating": "2"},
		{"_id": "d", "name": "Dana", "text": "Super"},
		{"_id": "e", "name": "Oana", "text": "Bine", "rating": json.Number("4.5")},
	}}
	svc := NewReviewService(docs, slog.Default())

	reviews := svc.List(context.Background())

	require.Len(t, reviews, 5)
	assert.Equal(t, domain.PublicReview{Name: "Elena", Text: "Minunat", Rating: 4, AvatarURL: &avatar}, reviews[0])
	assert.Equal(t, domain.PublicReview{Name: "Irina", Text: "", Rating: 3}, reviews[1])
	assert.Equal(t, domain.PublicReview{Name: "", Text: "Fără nume", Rating: 2}, reviews[2])
	assert.Equal(t, domain.PublicReview{Name: "Dana", Text: "Super", Rating: 5}, reviews[3])
	assert.Equal(t, domain.PublicReview{Name: "Oana", Text: "Bine", Rating: 4}, reviews[4])
}

func TestReviewServiceOutOfRangeRatingServesFallback(t *testing.T) {
	docs := &stubStore{records: []store.Record{
		{"_id": "a", "name": "Elena", "rating": json.Number("1e30")},
	}}

	reviews := NewReviewService(docs, slog.Default()).List(context.Background())

	assert.Equal(t, FallbackReviews(), reviews)
}

func TestReviewServiceWithSQLite(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, domain.CollectionReview, domain.Review{Name: "Elena", Text: "Minunat", Rating: 4})
	require.NoError(t, err)

	reviews := NewReviewService(s, slog.Default()).List(ctx)

	require.Len(t, reviews, 1)
	assert.Equal(t, "Elena", reviews[0].Name)
	assert.Equal(t, 4, reviews[0].Rating)
	assert.Nil(t, reviews[0].AvatarURL)
}

func TestFallbackReviewsAreFresh(t *testing.T) {
	first := FallbackReviews()
	first[0].Name = "changed"

	assert.Equal(t, "Ana M.", FallbackReviews()[0].Name)
}

func TestAppointmentServiceCreate(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	svc := NewAppointmentService(s, slog.Default())

	id, err := svc.Create(ctx, map[string]any{
		"name":    "Ana Pop",
		"phone":   "0722123456",
		"service": "manichiură",
		"date":    "2024-03-15",
		"time":    "10:30",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := s.ListAll(ctx, domain.CollectionAppointment)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0]["_id"])
	assert.Equal(t, "pending", records[0]["status"])
	assert.Nil(t, records[0]["notes"])
	assert.Contains(t, records[0], "created_at")
}

func TestAppointmentServiceAllowsDoubleBooking(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	svc := NewAppointmentService(s, slog.Default())
	raw := map[string]any{"name": "Ana Pop", "phone": "0722123456", "service": "coafor", "date": "2024-03-15", "time": "10:30"}

	first, err := svc.Create(ctx, raw)
	require.NoError(t, err)
	second, err := svc.Create(ctx, raw)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAppointmentServiceValidationBeforeInsert(t *testing.T) {
	docs := &stubStore{}
	svc := NewAppointmentService(docs, slog.Default())

	_, err := svc.Create(context.Background(), map[string]any{
		"name": "Ana Pop", "phone": "0722123456", "service": "coafor",
		"date": "15-03-2024-extra", "time": "10:30",
	})

	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("date"))
	assert.Empty(t, docs.inserted)
}

func TestAppointmentServiceStoreFailure(t *testing.T) {
	svc := NewAppointmentService(store.Disabled(), slog.Default())

	id, err := svc.Create(context.Background(), map[string]any{
		"name": "Ana Pop", "phone": "0722123456", "service": "coafor",
		"date": "2024-03-15", "time": "10:30",
	})

	assert.Empty(t, id)
	assert.ErrorIs(t, err, store.ErrStorage)
}

func TestDiagnosticsReport(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		d := NewDiagnosticsService(store.Disabled(), false, false).Report(ctx)

		assert.Equal(t, "✅ Running", d.Backend)
		assert.Equal(t, "⚠️ Available but not initialized", d.Database)
		assert.Nil(t, d.DatabaseURL)
		assert.Nil(t, d.DatabaseName)
		assert.Equal(t, "Not Connected", d.ConnectionStatus)
		assert.Equal(t, []string{}, d.Collections)
	})

	t.Run("connected", func(t *testing.T) {
		st := &stubStore{status: store.Status{Enabled: true, Collections: []string{"appointment", "review"}}}
		d := NewDiagnosticsService(st, true, false).Report(ctx)

		assert.Equal(t, "✅ Connected & Working", d.Database)
		require.NotNil(t, d.DatabaseURL)
		assert.Equal(t, "✅ Set", *d.DatabaseURL)
		require.NotNil(t, d.DatabaseName)
		assert.Equal(t, "❌ Not Set", *d.DatabaseName)
		assert.Equal(t, "Connected", d.ConnectionStatus)
		assert.Equal(t, []string{"appointment", "review"}, d.Collections)
	})

	t.Run("listing error", func(t *testing.T) {
		st := &stubStore{status: store.Status{Enabled: true, Err: errors.New(strings.Repeat("x", 200))}}
		d := NewDiagnosticsService(st, true, true).Report(ctx)

		assert.Equal(t, "⚠️ Connected but Error: "+strings.Repeat("x", 80), d.Database)
		assert.Equal(t, "Not Connected", d.ConnectionStatus)
		assert.Equal(t, []string{}, d.Collections)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "șț", Truncate("șțâ", 2))
}

func TestImportService(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	svc := NewImportService(s, slog.Default())

	ids, err := svc.Import(ctx, domain.CollectionReview, []map[string]any{
		{"name": "Elena", "text": "Minunat"},
		{"name": "Irina", "text": "Foarte bine", "rating": json.Number("4")},
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	records, err := s.ListAll(ctx, domain.CollectionReview)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestImportServiceRejectsWholeBatch(t *testing.T) {
	docs := &stubStore{}
	svc := NewImportService(docs, slog.Default())

	_, err := svc.Import(context.Background(), domain.CollectionGalleryItem, []map[string]any{
		{"title": "Coafură", "image_url": "https://example.com/1.jpg"},
		{"title": "Fără imagine"},
		{"image_url": "https://example.com/3.jpg"},
	})

	var ierr *ImportError
	require.ErrorAs(t, err, &ierr)
	require.Len(t, ierr.Elements, 2)
	assert.Equal(t, 1, ierr.Elements[0].Index)
	assert.True(t, ierr.Elements[0].Err.Has("image_url"))
	assert.Equal(t, 2, ierr.Elements[1].Index)
	assert.True(t, ierr.Elements[1].Err.Has("title"))
	assert.Empty(t, docs.inserted)
}

func TestImportServiceUnknownCollection(t *testing.T) {
	svc := NewImportService(&stubStore{}, slog.Default())

	_, err := svc.Import(context.Background(), domain.CollectionAppointment, nil)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}
