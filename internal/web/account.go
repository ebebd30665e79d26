package web

import (
	"net/http"

	"github.com/prayerpartner/service-web-go/internal/session"
)

type signinData struct {
	Username string
}

// SigninForm renders the sign-in page.
func (h *Handler) SigninForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signin", signinData{},
		session.Flash{Kind: "info", Text: "Please sign in or create a new account."})
}

// Signin handles the sign-in form submission.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	username := trimmed(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	authenticated, err := h.stores("").Authenticate(r.Context(), username, password)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !authenticated {
		h.render(w, r, "signin", signinData{Username: r.PostFormValue("username")},
			session.Flash{Kind: "error", Text: "Invalid credentials."})
		return
	}

	if err := h.sessions.SignIn(w, username); err != nil {
		h.serverError(w, r, err)
		return
	}
	redirectTo := h.sessions.TakeRedirect(w, r)
	if redirectTo == "" {
		redirectTo = "/categories"
	}
	session.AddFlash(w, r, "info", "Welcome!")
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// Signout clears the session.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w)
	http.Redirect(w, r, "/users/signin", http.StatusFound)
}

type newAccountData struct {
	Username string
}

// NewAccountForm renders the account creation page.
func (h *Handler) NewAccountForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "new-account", newAccountData{})
}

// CreateAccount handles the account creation form submission. On success the
// new user is signed in immediately.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	username := trimmed(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	var problems []session.Flash
	if !validUsername(username) {
		problems = append(problems, session.Flash{Kind: "error", Text: "Username must be between 1 and 70 characters."})
	}
	if !validPassword(password) {
		problems = append(problems, session.Flash{Kind: "error", Text: "Password must be between 1 and 70 characters."})
	}
	if len(problems) > 0 {
		h.render(w, r, "new-account", newAccountData{Username: username}, problems...)
		return
	}

	created, err := h.stores("").CreateAccount(r.Context(), username, password)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !created {
		h.render(w, r, "new-account", newAccountData{Username: r.PostFormValue("username")},
			session.Flash{Kind: "error", Text: "Username already taken."})
		return
	}

	if err := h.sessions.SignIn(w, username); err != nil {
		h.serverError(w, r, err)
		return
	}
	session.AddFlash(w, r, "success", "New account created.")
	http.Redirect(w, r, "/categories", http.StatusFound)
}

// EditAccountForm renders the password change page.
func (h *Handler) EditAccountForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "edit-account", nil)
}

// EditAccount handles a password change for the signed-in user.
func (h *Handler) EditAccount(w http.ResponseWriter, r *http.Request) {
	password := r.PostFormValue("password")
	if !validPassword(password) {
		h.render(w, r, "edit-account", nil,
			session.Flash{Kind: "error", Text: "Password must be between 1 and 70 characters."})
		return
	}

	updated, err := h.store(r).EditAccount(r.Context(), password)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !updated {
		session.AddFlash(w, r, "error", "Error updating password.")
	} else {
		session.AddFlash(w, r, "success", "Password updated.")
	}
	http.Redirect(w, r, "/categories", http.StatusFound)
}

// DeleteAccount removes the signed-in user and everything they own, then
// invalidates the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store(r).DeleteAccount(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !deleted {
		session.AddFlash(w, r, "error", "Error deleting account.")
	} else {
		h.sessions.SignOut(w)
		session.AddFlash(w, r, "success", "Account deleted.")
	}
	http.Redirect(w, r, "/users/signin", http.StatusFound)
}
