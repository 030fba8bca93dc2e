package model

// DefaultRecentLimit is the number of transactions the dashboard asks for
// when no limit is given.
const DefaultRecentLimit = 10

// maxRecentLimit bounds user-supplied limits.
const maxRecentLimit = 100

// RecentOptions configures GET /transactions/recent.
type RecentOptions struct {
	Limit int
}

// Clamp enforces limits (max 100, non-positive becomes the default).
func (o *RecentOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = DefaultRecentLimit
	}
	if o.Limit > maxRecentLimit {
		o.Limit = maxRecentLimit
	}
}
