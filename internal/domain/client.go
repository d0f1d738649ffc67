package domain

// Tier names a client's access tier.
type Tier string

// Access tiers.
const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
	TierMax  Tier = "max"
)

// Client is a registered API consumer together with its usage window.
type Client struct {
	APIKey   string
	Tier     Tier
	Name     string
	Email    string
	Requests int64
	Reset    int64 // epoch seconds of the current window start
}

// Tiers maps each tier to its request quota per window.
type Tiers map[Tier]int64

// Quota returns the quota for tier t. Unknown tiers get zero.
func (t Tiers) Quota(tier Tier) int64 {
	return t[tier]
}

// DefaultTiers returns the standard tier quotas.
func DefaultTiers() Tiers {
	return Tiers{
		TierFree: 10000,
		TierPro:  50000,
		TierMax:  100000,
	}
}
