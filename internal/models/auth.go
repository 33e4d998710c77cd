package models

// User is the account profile attached to an authenticated session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Plan  string `json:"plan,omitempty"`
}

// AuthStatus is a snapshot of the process-wide authentication state.
// It is always replaced as a whole, never partially mutated, so readers
// can never observe a mixed state.
type AuthStatus struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	User            *User `json:"user"`
}

// Unauthenticated returns the zero auth state.
func Unauthenticated() AuthStatus {
	return AuthStatus{IsAuthenticated: false, User: nil}
}
