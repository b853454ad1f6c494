package entity

// ApplicationStatus: pending -> approved | rejected (ทางเดียว ไม่มี re-open)
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decided reports whether an administrator has already acted on the record.
func (s ApplicationStatus) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition checks a status change requested by an administrator.
// Repeating the current decision is allowed so notes can be overwritten.
func (s ApplicationStatus) CanTransition(to ApplicationStatus) bool {
	if !to.Decided() {
		return false
	}
	return s == StatusPending || s == to
}
