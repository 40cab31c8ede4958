package types

type AccessToken struct {
	ID        int64  `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	Info      string `json:"info" db:"info"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	ExpiresAt int64  `json:"expires_at" db:"expires_at"`
}

// TokenClaims is the authenticated request identity carried through gin
// context after the authorization middleware passes.
type TokenClaims struct {
	User      string
	ExpiresAt int64
}
