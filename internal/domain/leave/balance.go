package leave

// reserve places a pending hold of days on the balance.
func reserve(b Balance, days float64) (Balance, error) {
	b = b.withAvailable()
	if days > b.Available {
		return b, ErrInsufficientBalance
	}
	b.Pending += days
	return b.withAvailable(), nil
}

// ApplyDecision moves a pending request's days to the target status. Approval
// converts the hold into used days; rejection and cancellation release it.
func ApplyDecision(b Balance, from, to string, days float64) (Balance, error) {
	if from != StatusPending {
		return b, ErrInvalidState
	}
	switch to {
	case StatusApproved:
		b.Pending -= days
		b.Used += days
	case StatusRejected, StatusCancelled:
		b.Pending -= days
	default:
		return b, ErrInvalidState
	}
	if b.Pending < 0 {
		b.Pending = 0
	}
	return b.withAvailable(), nil
}

func setAllocation(b Balance, allocated float64) (Balance, error) {
	if allocated < b.Used+b.Pending {
		return b, ErrAllocationBelowBooked
	}
	b.Allocated = allocated
	return b.withAvailable(), nil
}
