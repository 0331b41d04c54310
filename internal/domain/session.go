package domain

import "time"

// Profile holds the user data returned by the login endpoint.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the authenticated session snapshot: an opaque token plus the
// user profile. Exactly one session is active at a time; a new login
// overwrites the previous session without merge.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`

	// ExpiresAt is derived from the token when it is a decodable JWT;
	// zero for opaque tokens.
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the session token has a known, passed expiry.
// Opaque tokens never report expired; the server remains authoritative.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
