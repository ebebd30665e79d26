package entity

// User is an account row. The username doubles as the primary key and the
// scoping value for every other entity the user owns.
type User struct {
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
}
