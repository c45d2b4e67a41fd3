package domain

// CustomerRecord is the authoritative customer representation held by the
// backend store. Keyed preferentially by mobile, with email as a secondary
// key; the store enforces no uniqueness constraint across keys.
type CustomerRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Avatar       string `json:"avatar"`
	ReferralCode string `json:"referralCode"`
}

// CustomerUpsert is the payload sent to the customer store at login.
type CustomerUpsert struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Avatar string `json:"avatar"`
}
