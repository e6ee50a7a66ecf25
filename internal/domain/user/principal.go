package user

// Principal is the authenticated caller resolved from a session token.
type Principal struct {
	UserID string
	Email  string
}
