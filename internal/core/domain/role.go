package domain

import (
	"fmt"
	"strings"
)

// Role determines which operations a user may perform and which records
// they may see.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// roleRank is the single hierarchy used by RequireMinimumRank.
var roleRank = map[Role]int{
	RoleAdmin:    3,
	RoleManager:  2,
	RoleEmployee: 1,
}

// ParseRole accepts the canonical role names in any letter case. An empty
// string yields RoleEmployee, the default for new users.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return RoleEmployee, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the role's position in the hierarchy, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRank[r]
}

func (r Role) String() string { return string(r) }

// RequireExactRole allows the caller only when its role equals want.
func RequireExactRole(caller, want Role) error {
	if caller != want {
		return ErrForbidden
	}
	return nil
}

// RequireAnyRole allows the caller when its role is one of roles.
func RequireAnyRole(caller Role, roles ...Role) error {
	for _, r := range roles {
		if caller == r {
			return nil
		}
	}
	return ErrForbidden
}

// RequireMinimumRank allows the caller when its rank is at least the rank
// of min. Unknown roles never pass.
func RequireMinimumRank(caller, min Role) error {
	if caller.Rank() == 0 || caller.Rank() < min.Rank() {
		return ErrForbidden
	}
	return nil
}

// Policy is the role-specific half of every visibility decision. There is
// exactly one implementation per Role; obtain it with PolicyFor.
type Policy interface {
	Role() Role
	// ExpenseScope returns the filter selecting the expenses visible to the
	// user with the given id.
	ExpenseScope(userID string) ExpenseFilter
	// CanCreate reports whether this role may create users with role target.
	CanCreate(target Role) bool
	// CanViewExpensesOf reports whether caller may list the expenses of
	// target.
	CanViewExpensesOf(caller, target *User) bool
}

type adminPolicy struct{}

func (adminPolicy) Role() Role                        { return RoleAdmin }
func (adminPolicy) ExpenseScope(string) ExpenseFilter { return ExpenseFilter{} }
func (adminPolicy) CanCreate(target Role) bool        { return target.Valid() }
func (adminPolicy) CanViewExpensesOf(_, _ *User) bool { return true }

type managerPolicy struct{}

func (managerPolicy) Role() Role { return RoleManager }

func (managerPolicy) ExpenseScope(userID string) ExpenseFilter {
	return ExpenseFilter{ManagerID: userID}
}

func (managerPolicy) CanCreate(target Role) bool {
	return target == RoleManager || target == RoleEmployee
}

func (managerPolicy) CanViewExpensesOf(caller, target *User) bool {
	return caller.ID == target.ID || target.ManagerID == caller.ID
}

type employeePolicy struct{}

func (employeePolicy) Role() Role { return RoleEmployee }

func (employeePolicy) ExpenseScope(userID string) ExpenseFilter {
	return ExpenseFilter{UserID: userID}
}

func (employeePolicy) CanCreate(Role) bool { return false }

func (employeePolicy) CanViewExpensesOf(caller, target *User) bool {
	return caller.ID == target.ID
}

var policies = map[Role]Policy{
	RoleAdmin:    adminPolicy{},
	RoleManager:  managerPolicy{},
	RoleEmployee: employeePolicy{},
}

// PolicyFor returns the policy of r, or ErrForbidden for an unknown role.
func PolicyFor(r Role) (Policy, error) {
	p, ok := policies[r]
	if !ok {
		return nil, ErrForbidden
	}
	return p, nil
}
