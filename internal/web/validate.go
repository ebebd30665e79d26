package web

import (
	"strings"
	"unicode/utf8"
)

// Field bounds mirror the form validation rules: titles, usernames and
// passwords must be 1 to 70 characters; titles and usernames are trimmed
// first. The bound counts characters, not bytes.
const maxFieldLength = 70

func validLength(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= maxFieldLength
}

func trimmed(s string) string { return strings.TrimSpace(s) }

func validTitle(title string) bool   { return validLength(title) }
func validUsername(name string) bool { return validLength(name) }
func validPassword(pw string) bool   { return validLength(pw) }
