package leave_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"staffhive/internal/domain/core"
	"staffhive/internal/domain/leave"
	"staffhive/internal/domain/settings"
)

type recordingNotifier struct {
	mu      sync.Mutex
	decided []leave.Request
}

func (r *recordingNotifier) LeaveDecided(ctx context.Context, req leave.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decided = append(r.decided, req)
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Leave Service", func() {
	var (
		ctx      context.Context
		svc      *leave.Service
		coreSvc  *core.Service
		notifier *recordingNotifier
		emp      core.Employee
	)

	BeforeEach(func() {
		ctx = context.Background()
		coreSvc = core.NewService(core.NewMemoryStore())
		svc = leave.NewService(leave.NewMemoryStore(), coreSvc, settings.NewService(settings.NewMemoryStore()))
		notifier = &recordingNotifier{}
		svc.SetNotifier(notifier)

		var err error
		emp, err = coreSvc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@example.com"})
		Expect(err).NotTo(HaveOccurred())
	})

	submit := func(leaveType string, start, end time.Time) (leave.Request, error) {
		return svc.Submit(ctx, leave.SubmitInput{EmployeeID: emp.ID, LeaveType: leaveType, StartDate: start, EndDate: end})
	}

	balanceOf := func(leaveType string) leave.Balance {
		balances, err := svc.Balances(ctx, emp.ID, 2024)
		Expect(err).NotTo(HaveOccurred())
		for _, b := range balances {
			if b.LeaveType == leaveType {
				return b
			}
		}
		Fail("balance not found for " + leaveType)
		return leave.Balance{}
	}

	Describe("Submit", func() {
		It("reserves the requested days", func() {
			req, err := submit("annual", day(2, 15), day(2, 19))
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Days).To(Equal(5.0))
			Expect(req.Status).To(Equal(leave.StatusPending))

			b := balanceOf("annual")
			Expect(b.Allocated).To(Equal(25.0))
			Expect(b.Pending).To(Equal(5.0))
			Expect(b.Available).To(Equal(20.0))
		})

		It("rejects requests beyond the available balance", func() {
			_, err := submit("personal", day(3, 1), day(3, 5))
			Expect(err).NotTo(HaveOccurred())
			_, err = submit("personal", day(4, 1), day(4, 3))
			Expect(err).To(MatchError(leave.ErrInsufficientBalance))
			Expect(balanceOf("personal").Pending).To(Equal(5.0))
		})

		It("rejects an inverted date range", func() {
			_, err := submit("sick", day(3, 5), day(3, 1))
			Expect(err).To(MatchError(leave.ErrInvalidDateRange))
		})

		It("rejects an unknown leave type", func() {
			_, err := submit("sabbatical", day(3, 1), day(3, 1))
			Expect(err).To(MatchError(leave.ErrUnknownLeaveType))
		})

		It("never lets concurrent submissions overdraw", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			accepted := 0
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					if _, err := submit("personal", day(5, 1), day(5, 2)); err == nil {
						mu.Lock()
						accepted++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			Expect(accepted).To(Equal(3))
			Expect(balanceOf("personal").Available).To(Equal(1.0))
		})
	})

	Describe("decisions", func() {
		var req leave.Request

		BeforeEach(func() {
			var err error
			req, err = submit("annual", day(6, 3), day(6, 7))
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves approved days from pending to used", func() {
			approved, err := svc.Approve(ctx, req.ID, "hr-user")
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(leave.StatusApproved))
			Expect(approved.Approver).To(Equal("hr-user"))

			b := balanceOf("annual")
			Expect(b.Pending).To(BeZero())
			Expect(b.Used).To(Equal(5.0))
			Expect(b.Available).To(Equal(20.0))
			Expect(notifier.decided).To(HaveLen(1))
		})

		It("releases the hold on rejection", func() {
			_, err := svc.Reject(ctx, req.ID, "hr-user")
			Expect(err).NotTo(HaveOccurred())
			b := balanceOf("annual")
			Expect(b.Pending).To(BeZero())
			Expect(b.Used).To(BeZero())
			Expect(b.Available).To(Equal(25.0))
		})

		It("releases the hold on cancellation", func() {
			_, err := svc.Cancel(ctx, req.ID, emp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(balanceOf("annual").Available).To(Equal(25.0))
		})

		It("refuses to decide a request twice", func() {
			_, err := svc.Approve(ctx, req.ID, "hr-user")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Reject(ctx, req.ID, "hr-user")
			Expect(err).To(MatchError(leave.ErrInvalidState))
			_, err = svc.Approve(ctx, req.ID, "hr-user")
			Expect(err).To(MatchError(leave.ErrInvalidState))
			Expect(balanceOf("annual").Used).To(Equal(5.0))
		})

		It("reports missing requests", func() {
			_, err := svc.Approve(ctx, "missing", "hr-user")
			Expect(err).To(MatchError(leave.ErrRequestNotFound))
		})
	})

	Describe("AdjustAllocation", func() {
		It("refuses to drop below booked days", func() {
			_, err := submit("sick", day(7, 1), day(7, 10))
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AdjustAllocation(ctx, emp.ID, "sick", 2024, 9)
			Expect(err).To(MatchError(leave.ErrAllocationBelowBooked))

			b, err := svc.AdjustAllocation(ctx, emp.ID, "sick", 2024, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Available).To(Equal(10.0))
		})
	})

	Describe("RolloverYear", func() {
		It("provisions every leave type once", func() {
			summary, err := svc.RolloverYear(ctx, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.EmployeesChecked).To(Equal(1))
			Expect(summary.BalancesCreated).To(Equal(3))

			summary, err = svc.RolloverYear(ctx, 2025)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.BalancesCreated).To(BeZero())
		})
	})
})
