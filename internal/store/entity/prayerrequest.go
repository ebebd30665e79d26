package entity

// PrayerRequest is a short user-owned item belonging to exactly one category.
// Answered only ever transitions false -> true; there is no unanswer operation.
type PrayerRequest struct {
	ID         int64  `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	Username   string `db:"username" json:"username"`
	Answered   bool   `db:"answered" json:"answered"`
}
