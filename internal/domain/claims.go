package domain

// IdentityClaims are the canonical claims extracted from a verified
// provider assertion. Produced once per login event and folded into the
// session token; never persisted on their own.
type IdentityClaims struct {
	SubjectID   string
	Email       string
	PhoneNumber string
	DisplayName string
	PhotoURL    string
}
