package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	AvatarURL    string `json:"avatar_url"`
	Role         Role   `json:"role"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Actor is the authenticated identity a request acts as. Role checks in
// the lifecycle manager and assignment resolver trust it as-is.
type Actor struct {
	UserID string
	Email  string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
