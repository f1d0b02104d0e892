package payroll

const (
	StatusProcessed = "processed"
	StatusPaid      = "paid"

	ElementTypeEarning   = "earning"
	ElementTypeDeduction = "deduction"

	periodLayout = "2006-01"
)
