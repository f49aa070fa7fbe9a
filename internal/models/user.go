package models

type RoleName string

const (
	RoleDiner      RoleName = "diner"
	RoleFranchisee RoleName = "franchisee"
	RoleAdmin      RoleName = "admin"
)

// Role is one entry in a user's role set. Franchisee roles are scoped to a
// franchise via ObjectID; diner and admin roles are global.
type Role struct {
	Role     RoleName `json:"role"`
	ObjectID int      `json:"objectId,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Roles        []Role `json:"roles"`
}

// HasRole reports whether the user holds the given role, regardless of scope.
func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Role == name {
			return true
		}
	}
	return false
}

// IsFranchiseAdmin reports whether the user administers the given franchise.
func (u *User) IsFranchiseAdmin(franchiseID int) bool {
	for _, r := range u.Roles {
		if r.Role == RoleFranchisee && r.ObjectID == franchiseID {
			return true
		}
	}
	return false
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
