package postings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrPostingNotFound = errors.New("job posting not found")
	ErrInvalidStatus   = errors.New("invalid job posting status")
	ErrInvalidType     = errors.New("invalid job type")
	ErrMissingTitle    = errors.New("job title is required")
)

var jobTypes = map[string]struct{}{
	"full-time":  {},
	"part-time":  {},
	"contract":   {},
	"internship": {},
}

type Posting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Type         string    `json:"type"`
	Salary       string    `json:"salary"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Benefits     []string  `json:"benefits"`
	Status       string    `json:"status"`
	Applicants   int       `json:"applicants"`
	PostedAt     time.Time `json:"postedDate"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type StoreAPI interface {
	CreatePosting(ctx context.Context, posting Posting) error
	GetPosting(ctx context.Context, postingID string) (Posting, error)
	ListPostings(ctx context.Context, status string) ([]Posting, error)
	UpdatePosting(ctx context.Context, posting Posting) error
	DeletePosting(ctx context.Context, postingID string) error
}

// ApplicantCounter reports how many applicants each posting has received.
type ApplicantCounter interface {
	CountByPosting(ctx context.Context) (map[string]int, error)
}

type Service struct {
	store   StoreAPI
	counter ApplicantCounter
	now     func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) SetApplicantCounter(counter ApplicantCounter) {
	s.counter = counter
}

func (s *Service) CreatePosting(ctx context.Context, posting Posting) (Posting, error) {
	if err := normalize(&posting); err != nil {
		return Posting{}, err
	}
	if posting.Status == "" {
		posting.Status = StatusActive
	}
	now := s.now().UTC()
	posting.ID = uuid.NewString()
	posting.PostedAt = now
	posting.UpdatedAt = now
	posting.Applicants = 0
	if err := s.store.CreatePosting(ctx, posting); err != nil {
		return Posting{}, err
	}
	return posting, nil
}

func (s *Service) GetPosting(ctx context.Context, postingID string) (Posting, error) {
	posting, err := s.store.GetPosting(ctx, postingID)
	if err != nil {
		return Posting{}, err
	}
	counts, err := s.counts(ctx)
	if err != nil {
		return Posting{}, err
	}
	posting.Applicants = counts[posting.ID]
	return posting, nil
}

func (s *Service) ListPostings(ctx context.Context, status string) ([]Posting, error) {
	if status != "" && !validStatus(status) {
		return nil, ErrInvalidStatus
	}
	postings, err := s.store.ListPostings(ctx, status)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range postings {
		postings[i].Applicants = counts[postings[i].ID]
	}
	return postings, nil
}

func (s *Service) UpdatePosting(ctx context.Context, postingID string, posting Posting) (Posting, error) {
	existing, err := s.store.GetPosting(ctx, postingID)
	if err != nil {
		return Posting{}, err
	}
	if posting.Status == "" {
		posting.Status = existing.Status
	}
	if err := normalize(&posting); err != nil {
		return Posting{}, err
	}
	posting.ID = existing.ID
	posting.PostedAt = existing.PostedAt
	posting.UpdatedAt = s.now().UTC()
	if err := s.store.UpdatePosting(ctx, posting); err != nil {
		return Posting{}, err
	}
	return s.GetPosting(ctx, posting.ID)
}

// SetStatus moves a posting to the given status. Setting the current status
// again is a no-op.
func (s *Service) SetStatus(ctx context.Context, postingID, status string) (Posting, error) {
	if !validStatus(status) {
		return Posting{}, ErrInvalidStatus
	}
	posting, err := s.store.GetPosting(ctx, postingID)
	if err != nil {
		return Posting{}, err
	}
	if posting.Status != status {
		posting.Status = status
		posting.UpdatedAt = s.now().UTC()
		if err := s.store.UpdatePosting(ctx, posting); err != nil {
			return Posting{}, err
		}
	}
	return s.GetPosting(ctx, postingID)
}

func (s *Service) DeletePosting(ctx context.Context, postingID string) error {
	return s.store.DeletePosting(ctx, postingID)
}

func (s *Service) counts(ctx context.Context) (map[string]int, error) {
	if s.counter == nil {
		return map[string]int{}, nil
	}
	return s.counter.CountByPosting(ctx)
}

func normalize(posting *Posting) error {
	posting.Title = strings.TrimSpace(posting.Title)
	if posting.Title == "" {
		return ErrMissingTitle
	}
	if posting.Type == "" {
		posting.Type = "full-time"
	}
	posting.Type = strings.ToLower(posting.Type)
	if _, ok := jobTypes[posting.Type]; !ok {
		return ErrInvalidType
	}
	if posting.Status != "" && !validStatus(posting.Status) {
		return ErrInvalidStatus
	}
	posting.Requirements = compact(posting.Requirements)
	posting.Benefits = compact(posting.Benefits)
	return nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func validStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
