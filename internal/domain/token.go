package domain

// SessionToken is the server-held state of an authenticated session. It is
// seeded with provider-supplied values at login and mutated on every refresh,
// with backend-resolved values overwriting provider-supplied ones. The
// session layer owns the stored copy; the pipeline only reads and returns a
// modified one.
type SessionToken struct {
	Subject      string `json:"sub,omitempty"`
	Mobile       string `json:"mobile"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
	Avatar       string `json:"avatar"`
}

// SessionUser is the client-visible user shape.
type SessionUser struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Image        string `json:"image"`
	Mobile       string `json:"mobile"`
	ReferralCode string `json:"referralCode"`
}

// Session is the client-visible projection of a SessionToken. Derived
// deterministically; never independently mutated.
type Session struct {
	User SessionUser `json:"user"`
}
