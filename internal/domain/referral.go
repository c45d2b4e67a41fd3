package domain

const (
	// ReferralAmount is the fixed credit attached to every completion event.
	ReferralAmount = 1000

	// ReferralStatusCompleted marks the referred customer as onboarded.
	ReferralStatusCompleted = "completed"
)

// ReferralEvent asserts that a referred customer completed onboarding,
// credited against a referral code. There is no de-duplication key tying an
// event to a prior one; revisiting the callback re-emits a fresh event.
type ReferralEvent struct {
	ReferredEmail  string `json:"referredEmail"`
	ReferredName   string `json:"referredName"`
	ReferredMobile string `json:"referredMobile"`
	ReferralCode   string `json:"referralCode"`
	Status         string `json:"status"`
	ReferralAmount int64  `json:"referralAmount"`
}
