package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExpenseStatus represents the lifecycle state of an expense.
type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "pending"
	StatusApproved ExpenseStatus = "approved"
	StatusRejected ExpenseStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions. Approved
// and rejected are terminal.
var validTransitions = map[ExpenseStatus][]ExpenseStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// statusAliases maps the informal decisions accepted on the wire to their
// canonical status.
var statusAliases = map[string]ExpenseStatus{
	"approve": StatusApproved,
	"reject":  StatusRejected,
}

// ParseStatus normalizes a decision such as "approve" or "Rejected" into a
// canonical status. Anything outside the three statuses is ErrInvalidStatus.
func ParseStatus(raw string) (ExpenseStatus, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := statusAliases[s]; ok {
		return alias, nil
	}
	switch st := ExpenseStatus(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Terminal reports whether no transition leaves s.
func (s ExpenseStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition explains why s cannot move to next, or returns nil.
func (s ExpenseStatus) CheckTransition(next ExpenseStatus) error {
	if s.Terminal() {
		return fmt.Errorf("%w: status is %s", ErrAlreadyResolved, s)
	}
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// Expense is a reimbursement request submitted by an employee.
type Expense struct {
	ID          string
	UserID      string
	Amount      float64
	Description string
	Date        time.Time
	ManagerID   string // submitter's manager at submission time
	ResolvedBy  string // empty until approved or rejected
	Status      ExpenseStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExpenseFilter selects expenses by submitter and/or manager. The zero
// value selects every expense.
type ExpenseFilter struct {
	UserID    string
	ManagerID string
}

// Matches reports whether e is selected by f.
func (f ExpenseFilter) Matches(e *Expense) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.ManagerID != "" && e.ManagerID != f.ManagerID {
		return false
	}
	return true
}

// ExpenseView is an expense together with the identities it references.
type ExpenseView struct {
	Expense
	Submitter *UserSummary
	Resolver  *UserSummary
}
