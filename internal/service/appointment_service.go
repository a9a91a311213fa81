package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/salonbook/internal/domain"
	"github.com/vbonduro/salonbook/internal/validate"
)

// documentWriter is the subset of store.DocumentStore that AppointmentService requires.
type documentWriter interface {
	Insert(ctx context.Context, collection string, doc any) (string, error)
}

type AppointmentService struct {
	docs   documentWriter
	logger *slog.Logger
}

func NewAppointmentService(docs documentWriter, logger *slog.Logger) *AppointmentService {
	return &AppointmentService{docs: docs, logger: logger}
}

// Create validates raw and stores it as a pending (or explicitly given
// status) appointment. It returns a *validate.ValidationError for bad input
// and a store error when the write fails. Overlapping time slots are accepted.
func (s *AppointmentService) Create(ctx context.Context, raw map[string]any) (string, error) {
	appt, err := validate.Appointment(raw)
	if err != nil {
		return "", err
	}

	id, err := s.docs.Insert(ctx, domain.CollectionAppointment, appt)
	if err != nil {
		return "", fmt.Errorf("failed to store appointment: %w", err)
	}

	s.logger.Info("appointment created", "id", id, "service", appt.Service, "date", appt.Date, "time", appt.Time)
	return id, nil
}
