package postings_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"staffhive/internal/domain/postings"
)

type fixedCounter map[string]int

func (f fixedCounter) CountByPosting(ctx context.Context) (map[string]int, error) {
	return f, nil
}

var _ = Describe("Postings Service", func() {
	var (
		ctx     context.Context
		svc     *postings.Service
		posting postings.Posting
	)

	BeforeEach(func() {
		ctx = context.Background()
		svc = postings.NewService(postings.NewMemoryStore())

		var err error
		posting, err = svc.CreatePosting(ctx, postings.Posting{
			Title:        "Backend Engineer",
			Company:      "Staff Hive",
			Requirements: []string{"Go", " ", "SQL"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("defaults to an active full-time posting", func() {
		Expect(posting.Status).To(Equal(postings.StatusActive))
		Expect(posting.Type).To(Equal("full-time"))
		Expect(posting.Requirements).To(Equal([]string{"Go", "SQL"}))
	})

	It("rejects unknown job types", func() {
		_, err := svc.CreatePosting(ctx, postings.Posting{Title: "Intern", Type: "gig"})
		Expect(err).To(MatchError(postings.ErrInvalidType))
	})

	Describe("SetStatus", func() {
		It("sets an explicit status and is idempotent", func() {
			updated, err := svc.SetStatus(ctx, posting.ID, postings.StatusInactive)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(postings.StatusInactive))

			again, err := svc.SetStatus(ctx, posting.ID, postings.StatusInactive)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Status).To(Equal(postings.StatusInactive))

			active, err := svc.ListPostings(ctx, postings.StatusActive)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeEmpty())
		})

		It("rejects unknown statuses", func() {
			_, err := svc.SetStatus(ctx, posting.ID, "paused")
			Expect(err).To(MatchError(postings.ErrInvalidStatus))
		})

		It("reports missing postings", func() {
			_, err := svc.SetStatus(ctx, "missing", postings.StatusActive)
			Expect(err).To(MatchError(postings.ErrPostingNotFound))
		})
	})

	It("derives the applicant count", func() {
		svc.SetApplicantCounter(fixedCounter{posting.ID: 4})
		loaded, err := svc.GetPosting(ctx, posting.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Applicants).To(Equal(4))
	})
})
