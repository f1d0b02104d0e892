package recruitment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"staffhive/internal/domain/postings"
	"staffhive/internal/domain/recruitment"
)

var _ = Describe("Recruitment Service", func() {
	var (
		ctx       context.Context
		jobs      *postings.Service
		svc       *recruitment.Service
		posting   postings.Posting
		applicant recruitment.Applicant
	)

	BeforeEach(func() {
		ctx = context.Background()
		jobs = postings.NewService(postings.NewMemoryStore())
		store := recruitment.NewMemoryStore()
		svc = recruitment.NewService(store, jobs)
		jobs.SetApplicantCounter(store)

		var err error
		posting, err = jobs.CreatePosting(ctx, postings.Posting{Title: "Product Designer"})
		Expect(err).NotTo(HaveOccurred())

		applicant, err = svc.AddApplicant(ctx, recruitment.Applicant{
			Name:      "Ada Obi",
			Email:     "ADA@example.com",
			PostingID: posting.ID,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts applicants in the applied stage", func() {
		Expect(applicant.Stage).To(Equal(recruitment.StageApplied))
		Expect(applicant.Email).To(Equal("ada@example.com"))
		Expect(applicant.Position).To(Equal("Product Designer"))
	})

	It("rejects applicants for unknown postings", func() {
		_, err := svc.AddApplicant(ctx, recruitment.Applicant{Name: "X", Email: "x@example.com", PostingID: "nope"})
		Expect(err).To(MatchError(postings.ErrPostingNotFound))
	})

	It("walks the pipeline one step at a time", func() {
		for _, stage := range []string{recruitment.StageInterviewing, recruitment.StageOffered, recruitment.StageHired} {
			moved, err := svc.MoveStage(ctx, applicant.ID, stage)
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.Stage).To(Equal(stage))
		}

		_, err := svc.MoveStage(ctx, applicant.ID, recruitment.StageRejected)
		Expect(err).To(MatchError(recruitment.ErrInvalidTransition))
	})

	It("refuses to skip stages", func() {
		_, err := svc.MoveStage(ctx, applicant.ID, recruitment.StageHired)
		Expect(err).To(MatchError(recruitment.ErrInvalidTransition))

		loaded, err := svc.GetApplicant(ctx, applicant.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Stage).To(Equal(recruitment.StageApplied))
	})

	It("counts applicants by stage and posting", func() {
		_, err := svc.MoveStage(ctx, applicant.ID, recruitment.StageRejected)
		Expect(err).NotTo(HaveOccurred())
		_, err = svc.AddApplicant(ctx, recruitment.Applicant{Name: "Bola", Email: "bola@example.com"})
		Expect(err).NotTo(HaveOccurred())

		byStage, err := svc.CountByStage(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(byStage).To(HaveKeyWithValue(recruitment.StageRejected, 1))
		Expect(byStage).To(HaveKeyWithValue(recruitment.StageApplied, 1))
		Expect(byStage).To(HaveKeyWithValue(recruitment.StageHired, 0))

		loaded, err := jobs.GetPosting(ctx, posting.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Applicants).To(Equal(1))
	})

	It("filters by stage", func() {
		_, err := svc.ListApplicants(ctx, recruitment.Filter{Stage: "ghosted"})
		Expect(err).To(MatchError(recruitment.ErrInvalidStage))

		list, err := svc.ListApplicants(ctx, recruitment.Filter{Stage: recruitment.StageApplied})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
	})

	It("edits details without touching the stage", func() {
		_, err := svc.MoveStage(ctx, applicant.ID, recruitment.StageInterviewing)
		Expect(err).NotTo(HaveOccurred())

		updated, err := svc.UpdateApplicant(ctx, applicant.ID, recruitment.Applicant{
			Name:  "Ada Obi",
			Email: "ADA.OBI@example.com",
			Notes: "strong portfolio",
			Stage: recruitment.StageHired,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Stage).To(Equal(recruitment.StageInterviewing))
		Expect(updated.Email).To(Equal("ada.obi@example.com"))

		loaded, err := svc.GetApplicant(ctx, applicant.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Notes).To(Equal("strong portfolio"))
		Expect(loaded.Stage).To(Equal(recruitment.StageInterviewing))
	})

	It("deletes applicants", func() {
		Expect(svc.DeleteApplicant(ctx, applicant.ID)).To(Succeed())
		Expect(svc.DeleteApplicant(ctx, applicant.ID)).To(MatchError(recruitment.ErrApplicantNotFound))
	})
})
