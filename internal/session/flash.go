package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "prayer-partner-flash"

// Flash is a one-shot message shown on the next rendered page.
// Kind is one of "error", "info", "success".
type Flash struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// AddFlash appends one flash message to the pending set. Messages survive one
// redirect and are cleared when taken. The pending set is rewritten from the
// request cookie, so call AddFlashes instead when a handler has several
// messages to add in the same response.
func AddFlash(w http.ResponseWriter, r *http.Request, kind, text string) {
	AddFlashes(w, r, Flash{Kind: kind, Text: text})
}

// AddFlashes appends several flash messages in one write.
func AddFlashes(w http.ResponseWriter, r *http.Request, flashes ...Flash) {
	pending := readFlashes(r)
	pending = append(pending, flashes...)
	writeFlashes(w, pending)
}

// TakeFlashes returns all pending flash messages and clears them.
func TakeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	pending := readFlashes(r)
	if len(pending) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return pending
}

func readFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func writeFlashes(w http.ResponseWriter, flashes []Flash) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
