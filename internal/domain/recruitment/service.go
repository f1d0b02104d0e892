package recruitment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"staffhive/internal/domain/postings"
)

// PostingLookup resolves the job posting an applicant applies to.
type PostingLookup interface {
	GetPosting(ctx context.Context, postingID string) (postings.Posting, error)
}

type Service struct {
	store    StoreAPI
	postings PostingLookup
	now      func() time.Time
}

func NewService(store StoreAPI, lookup PostingLookup) *Service {
	return &Service{store: store, postings: lookup, now: time.Now}
}

func (s *Service) AddApplicant(ctx context.Context, applicant Applicant) (Applicant, error) {
	if err := s.prepare(ctx, &applicant); err != nil {
		return Applicant{}, err
	}
	now := s.now().UTC()
	applicant.ID = uuid.NewString()
	applicant.Stage = StageApplied
	if applicant.AppliedDate.IsZero() {
		applicant.AppliedDate = now.Truncate(24 * time.Hour)
	}
	applicant.UpdatedAt = now
	if err := s.store.CreateApplicant(ctx, applicant); err != nil {
		return Applicant{}, err
	}
	return applicant, nil
}

func (s *Service) GetApplicant(ctx context.Context, applicantID string) (Applicant, error) {
	return s.store.GetApplicant(ctx, applicantID)
}

func (s *Service) ListApplicants(ctx context.Context, filter Filter) ([]Applicant, error) {
	if filter.Stage != "" && !ValidStage(filter.Stage) {
		return nil, ErrInvalidStage
	}
	return s.store.ListApplicants(ctx, filter)
}

func (s *Service) MoveStage(ctx context.Context, applicantID, to string) (Applicant, error) {
	if !ValidStage(to) {
		return Applicant{}, ErrInvalidStage
	}
	applicant, err := s.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return Applicant{}, err
	}
	if !CanTransition(applicant.Stage, to) {
		return Applicant{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, applicant.Stage, to)
	}
	now := s.now().UTC()
	if err := s.store.UpdateStage(ctx, applicantID, applicant.Stage, to, now); err != nil {
		return Applicant{}, err
	}
	applicant.Stage = to
	applicant.UpdatedAt = now
	return applicant, nil
}

// UpdateApplicant edits an applicant's details. Stage changes go through
// MoveStage only.
func (s *Service) UpdateApplicant(ctx context.Context, applicantID string, applicant Applicant) (Applicant, error) {
	existing, err := s.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return Applicant{}, err
	}
	if err := s.prepare(ctx, &applicant); err != nil {
		return Applicant{}, err
	}
	applicant.ID = existing.ID
	applicant.Stage = existing.Stage
	applicant.AppliedDate = existing.AppliedDate
	applicant.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateDetails(ctx, applicant); err != nil {
		return Applicant{}, err
	}
	return applicant, nil
}

func (s *Service) prepare(ctx context.Context, applicant *Applicant) error {
	applicant.Name = strings.TrimSpace(applicant.Name)
	applicant.Email = strings.ToLower(strings.TrimSpace(applicant.Email))
	if applicant.Name == "" || applicant.Email == "" {
		return ErrMissingIdentifier
	}
	if applicant.PostingID != "" && s.postings != nil {
		posting, err := s.postings.GetPosting(ctx, applicant.PostingID)
		if err != nil {
			return fmt.Errorf("resolve posting: %w", err)
		}
		if applicant.Position == "" {
			applicant.Position = posting.Title
		}
	}
	return nil
}

func (s *Service) DeleteApplicant(ctx context.Context, applicantID string) error {
	return s.store.DeleteApplicant(ctx, applicantID)
}

// CountByStage returns a count for every stage, including empty ones.
func (s *Service) CountByStage(ctx context.Context) (map[string]int, error) {
	counts, err := s.store.CountByStage(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(Stages))
	for _, stage := range Stages {
		out[stage] = counts[stage]
	}
	return out, nil
}

func (s *Service) CountByPosting(ctx context.Context) (map[string]int, error) {
	return s.store.CountByPosting(ctx)
}
