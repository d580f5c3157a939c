package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Validate trims the text fields of req in place and checks presence.
func (req *CreateRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Condition = strings.TrimSpace(req.Condition)
	if req.Name == "" || req.Age == nil || req.Condition == "" {
		return fmt.Errorf("%w: name, age, and condition are required", ErrValidation)
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return items, nil
}

func (s *Service) CreatePatient(ctx context.Context, req CreateRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		Name:      req.Name,
		Age:       *req.Age,
		Condition: req.Condition,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient created")
	return p, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient %s: %w", id, err)
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// ParseID parses a record identifier, reporting malformed input as
// ErrValidation.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid patient id", ErrValidation)
	}
	return id, nil
}
