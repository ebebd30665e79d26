package entity

// Category is a user-owned named bucket of prayer requests.
// (title, username) is unique per the schema.
type Category struct {
	ID       int64  `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Username string `db:"username" json:"username"`

	// PrayerRequests is populated by the façade's load/list operations,
	// not by the categories table itself.
	PrayerRequests []*PrayerRequest `db:"-" json:"prayer_requests,omitempty"`
}

// Unanswered returns the subset of attached prayer requests not yet answered.
func (c *Category) Unanswered() []*PrayerRequest {
	var out []*PrayerRequest
	for _, r := range c.PrayerRequests {
		if !r.Answered {
			out = append(out, r)
		}
	}
	return out
}

// Answered returns the subset of attached prayer requests marked answered.
func (c *Category) Answered() []*PrayerRequest {
	var out []*PrayerRequest
	for _, r := range c.PrayerRequests {
		if r.Answered {
			out = append(out, r)
		}
	}
	return out
}
