package core_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"staffhive/internal/domain/core"
)

func salary(v int64) *int64 { return &v }

type fixedRecords map[string]bool

func (f fixedRecords) HasEmployeeRecords(ctx context.Context, employeeID string) (bool, error) {
	return f[employeeID], nil
}

var _ = Describe("Core Service", func() {
	var (
		ctx     context.Context
		svc     *core.Service
		company core.Company
	)

	BeforeEach(func() {
		ctx = context.Background()
		svc = core.NewService(core.NewMemoryStore())

		var err error
		company, err = svc.RegisterCompany(ctx, core.Company{Name: "Acme Ltd", RegistrationNumber: "RC-1001"})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("RegisterCompany", func() {
		It("assigns an id and timestamps", func() {
			Expect(company.ID).NotTo(BeEmpty())
			Expect(company.CreatedAt).NotTo(BeZero())
		})

		It("rejects a duplicate registration number", func() {
			_, err := svc.RegisterCompany(ctx, core.Company{Name: "Other", RegistrationNumber: "RC-1001"})
			Expect(err).To(MatchError(core.ErrDuplicateCompany))
		})

		It("requires a name and registration number", func() {
			_, err := svc.RegisterCompany(ctx, core.Company{Name: "  "})
			Expect(err).To(MatchError(core.ErrMissingIdentifier))
		})
	})

	Describe("CreateEmployee", func() {
		It("defaults status and currency", func() {
			emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ADA@acme.test", CompanyID: company.ID, Salary: salary(500000)})
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Status).To(Equal(core.EmployeeStatusActive))
			Expect(emp.Currency).To(Equal(core.DefaultCurrency))
			Expect(emp.Email).To(Equal("ada@acme.test"))
		})

		It("rejects an unknown company", func() {
			_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test", CompanyID: "missing"})
			Expect(err).To(MatchError(core.ErrCompanyNotFound))
		})

		It("rejects a negative salary", func() {
			_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test", Salary: salary(-1)})
			Expect(err).To(MatchError(core.ErrNegativeSalary))
		})

		It("rejects a duplicate email", func() {
			_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreateEmployee(ctx, core.Employee{Name: "Ada Two", Email: "Ada@Acme.test"})
			Expect(err).To(MatchError(core.ErrDuplicateEmail))
		})

		It("rejects an unknown status", func() {
			_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test", Status: "on-leave"})
			Expect(err).To(MatchError(core.ErrInvalidStatus))
		})
	})

	Describe("UpdateEmployee", func() {
		It("keeps the salary when none is supplied", func() {
			emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test", Salary: salary(500000)})
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.UpdateEmployee(ctx, emp.ID, core.Employee{Name: "Ada L", Email: "ada@acme.test", Department: "Eng"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.SalaryAmount()).To(Equal(int64(500000)))
			Expect(updated.CreatedAt).To(Equal(emp.CreatedAt))
		})
	})

	Describe("SetEmployeeStatus", func() {
		It("deactivates an employee", func() {
			emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test"})
			Expect(err).NotTo(HaveOccurred())

			emp, err = svc.SetEmployeeStatus(ctx, emp.ID, core.EmployeeStatusInactive)
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.IsActive()).To(BeFalse())

			active, err := svc.ListEmployees(ctx, core.EmployeeFilter{Status: core.EmployeeStatusActive})
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeEmpty())
		})
	})

	Describe("DeleteCompany", func() {
		It("refuses while employees reference it", func() {
			_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test", CompanyID: company.ID})
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.DeleteCompany(ctx, company.ID)).To(MatchError(core.ErrCompanyInUse))

			loaded, err := svc.GetCompany(ctx, company.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.EmployeeCount).To(Equal(1))
		})

		It("deletes an empty company", func() {
			Expect(svc.DeleteCompany(ctx, company.ID)).To(Succeed())
			_, err := svc.GetCompany(ctx, company.ID)
			Expect(err).To(MatchError(core.ErrCompanyNotFound))
		})
	})

	Describe("ListEmployees", func() {
		It("filters by search and department", func() {
			_, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test", Department: "Eng"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreateEmployee(ctx, core.Employee{Name: "Bola", Email: "bola@acme.test", Department: "Ops"})
			Expect(err).NotTo(HaveOccurred())

			found, err := svc.ListEmployees(ctx, core.EmployeeFilter{Search: "bol"})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].Name).To(Equal("Bola"))

			found, err = svc.ListEmployees(ctx, core.EmployeeFilter{Department: "Eng"})
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
		})
	})

	Describe("DeleteEmployee", func() {
		It("refuses while other records reference the employee", func() {
			emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Ada", Email: "ada@acme.test"})
			Expect(err).NotTo(HaveOccurred())
			svc.AddEmployeeRecords(fixedRecords{})
			svc.AddEmployeeRecords(fixedRecords{emp.ID: true})

			Expect(svc.DeleteEmployee(ctx, emp.ID)).To(MatchError(core.ErrEmployeeInUse))
			_, err = svc.GetEmployee(ctx, emp.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("deletes an employee without history", func() {
			emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Bola", Email: "bola@acme.test"})
			Expect(err).NotTo(HaveOccurred())
			svc.AddEmployeeRecords(fixedRecords{})

			Expect(svc.DeleteEmployee(ctx, emp.ID)).To(Succeed())
			Expect(svc.DeleteEmployee(ctx, emp.ID)).To(MatchError(core.ErrEmployeeNotFound))
		})
	})
})
