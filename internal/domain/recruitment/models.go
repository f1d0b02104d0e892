package recruitment

import (
	"errors"
	"time"
)

var (
	ErrApplicantNotFound = errors.New("applicant not found")
	ErrInvalidTransition = errors.New("invalid stage transition")
	ErrInvalidStage      = errors.New("invalid stage")
	ErrMissingIdentifier = errors.New("applicant name and email are required")
)

type Applicant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Position    string    `json:"position"`
	PostingID   string    `json:"postingId,omitempty"`
	Stage       string    `json:"stage"`
	AppliedDate time.Time `json:"appliedDate"`
	Resume      string    `json:"resume"`
	CoverLetter string    `json:"coverLetter"`
	Notes       string    `json:"notes"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Filter struct {
	Stage     string
	PostingID string
}

func (f Filter) matches(a Applicant) bool {
	if f.Stage != "" && a.Stage != f.Stage {
		return false
	}
	if f.PostingID != "" && a.PostingID != f.PostingID {
		return false
	}
	return true
}
