package domain

import "time"

// HistoryAction captures the decision recorded by a history entry.
type HistoryAction string

const (
	ActionApproved HistoryAction = "Approved"
	ActionRejected HistoryAction = "Rejected"
)

// InvoiceHistory is an immutable audit trail entry. Exactly one entry exists
// per decided invoice; ActorID is nil when the acting manager was removed.
type InvoiceHistory struct {
	ID        int64
	InvoiceID int64
	ActorID   *int64
	Action    HistoryAction
	TS        time.Time
}
