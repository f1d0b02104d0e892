package payroll

// Rates are expressed in basis points: 1000 is 10%.
type Rates struct {
	BonusBP   int64 `json:"bonusBp"`
	TaxBP     int64 `json:"taxBp"`
	PensionBP int64 `json:"pensionBp"`
}

func DefaultRates() Rates {
	return Rates{BonusBP: 1000, TaxBP: 750, PensionBP: 800}
}

func (r Rates) Validate() error {
	for _, bp := range []int64{r.BonusBP, r.TaxBP, r.PensionBP} {
		if bp < 0 || bp > 10000 {
			return ErrInvalidRate
		}
	}
	return nil
}

// Breakdown holds every component of a payslip in minor currency units.
type Breakdown struct {
	Base       int64 `json:"baseSalary"`
	Overtime   int64 `json:"overtime"`
	Bonus      int64 `json:"bonus"`
	Gross      int64 `json:"gross"`
	Tax        int64 `json:"tax"`
	Pension    int64 `json:"pension"`
	Deductions int64 `json:"deductions"`
	Net        int64 `json:"net"`
}

// Calculate derives bonus, tax and pension from the base salary. Overtime is
// paid on top but is not itself subject to the rates.
func Calculate(base, overtime int64, rates Rates) (Breakdown, error) {
	if base < 0 || overtime < 0 {
		return Breakdown{}, ErrNegativeSalary
	}
	if err := rates.Validate(); err != nil {
		return Breakdown{}, err
	}

	out := Breakdown{
		Base:     base,
		Overtime: overtime,
		Bonus:    applyRate(base, rates.BonusBP),
		Tax:      applyRate(base, rates.TaxBP),
		Pension:  applyRate(base, rates.PensionBP),
	}
	out.Gross = out.Base + out.Overtime + out.Bonus
	out.Deductions = out.Tax + out.Pension
	out.Net = out.Gross - out.Deductions
	return out, nil
}

// applyRate rounds half up.
func applyRate(amount, bp int64) int64 {
	return (amount*bp + 5000) / 10000
}

type InputLine struct {
	Type   string
	Amount int64
}

// ComputePayroll folds extra earning and deduction lines over a base amount.
// Unknown line types are ignored.
func ComputePayroll(baseSalary int64, inputs []InputLine) (gross, deductions, net int64) {
	gross = baseSalary
	for _, input := range inputs {
		switch input.Type {
		case ElementTypeEarning:
			gross += input.Amount
		case ElementTypeDeduction:
			deductions += input.Amount
		}
	}
	net = gross - deductions
	return gross, deductions, net
}
