package domain

import "fmt"

// Role is the access level of an account.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

// User is the account projection returned by the feedback API.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	ManagerID *int      `json:"manager_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// Validate checks the role invariants of u.
func (u *User) Validate() error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	if u.Role == RoleManager && u.ManagerID != nil {
		return fmt.Errorf("%w: manager %d must not report to a manager", ErrInvalidUser, u.ID)
	}
	return nil
}

// IsManager reports whether u holds the manager role.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// Principal is the role-specific view of an authenticated user.
// The concrete type is either Manager or Employee.
type Principal interface {
	Account() User
	principal()
}

// Manager is a user who gives feedback to a team.
type Manager struct {
	User User
}

// Employee is a user who receives feedback, optionally reporting to a manager.
type Employee struct {
	User      User
	ManagerID *int
}

func (m Manager) Account() User  { return m.User }
func (e Employee) Account() User { return e.User }
func (Manager) principal()       {}
func (Employee) principal()      {}

// Principal returns the tagged variant for u.
func (u *User) Principal() (Principal, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.Role == RoleManager {
		return Manager{User: *u}, nil
	}
	return Employee{User: *u, ManagerID: u.ManagerID}, nil
}

// Registration holds the fields needed to create an account.
type Registration struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	ManagerID *int   `json:"manager_id,omitempty"`
}

// AuthToken is the bearer credential issued on login.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const TokenTypeBearer = "bearer"
