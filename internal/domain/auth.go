package domain

// AuthUser is the identity carried by a verified Supabase session
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
