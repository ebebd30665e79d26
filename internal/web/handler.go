// Package web contains the HTTP handlers and HTML views for the prayer
// partner application. Handlers translate requests into persistence façade
// calls, map boolean outcomes to flash messages, and redirect.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/prayerpartner/service-web-go/internal/session"
	"github.com/prayerpartner/service-web-go/internal/store/entity"
)

// itemsPerPage is the page size for categories and prayer requests.
const itemsPerPage = 5

// Store is the persistence façade as seen from the handlers. A fresh value
// bound to the session's username is obtained per request via StoreFactory.
type Store interface {
	Authenticate(ctx context.Context, username, password string) (bool, error)
	CreateAccount(ctx context.Context, username, password string) (bool, error)
	DeleteAccount(ctx context.Context) (bool, error)
	EditAccount(ctx context.Context, password string) (bool, error)

	ExistsCategoryTitle(ctx context.Context, title string) (bool, error)
	CreateCategory(ctx context.Context, title string) (bool, error)
	LoadCategory(ctx context.Context, categoryID int64) (*entity.Category, error)
	SetCategoryTitle(ctx context.Context, categoryID int64, title string) (bool, error)
	DeleteCategory(ctx context.Context, categoryID int64) (bool, error)
	SortedCategories(ctx context.Context) ([]*entity.Category, error)
	PaginatedCategories(ctx context.Context, limit, offset int) ([]*entity.Category, error)

	CreatePrayerRequest(ctx context.Context, categoryID int64, title string) (bool, error)
	LoadPrayerRequest(ctx context.Context, categoryID, prayerRequestID int64) (*entity.PrayerRequest, error)
	SetPrayerRequestTitle(ctx context.Context, prayerRequestID int64, title string) (bool, error)
	AnswerPrayerRequest(ctx context.Context, prayerRequestID int64) (bool, error)
	DeletePrayerRequest(ctx context.Context, prayerRequestID int64) (bool, error)
	UnansweredPrayerRequests(ctx context.Context, categoryID int64) ([]*entity.PrayerRequest, error)
	AnsweredPrayerRequests(ctx context.Context, categoryID int64) ([]*entity.PrayerRequest, error)
	PaginatedUnansweredPrayerRequests(ctx context.Context, categoryID int64, limit, offset int) ([]*entity.PrayerRequest, error)
	PaginatedAnsweredPrayerRequests(ctx context.Context, categoryID int64, limit, offset int) ([]*entity.PrayerRequest, error)
}

// StoreFactory builds a façade bound to the given username. An empty username
// is used for the signin and account-creation flows.
type StoreFactory func(username string) Store

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Handler carries the dependencies shared by all routes.
type Handler struct {
	stores    StoreFactory
	sessions  *session.Manager
	logger    *zap.SugaredLogger
	templates map[string]*template.Template
}

func NewHandler(stores StoreFactory, sessions *session.Manager, logger *zap.SugaredLogger) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{stores: stores, sessions: sessions, logger: logger, templates: templates}, nil
}

// parseTemplates builds one template set per page, each sharing the layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := pageName(page)
		t, err := template.ParseFS(templatesFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[name] = t
	}
	return templates, nil
}

func pageName(path string) string {
	// templates/pages/<name>.html
	base := path[len("templates/pages/"):]
	return base[:len(base)-len(".html")]
}

// Static serves the embedded public assets.
func (h *Handler) Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}

// page is the root object every template renders against.
type page struct {
	Username string
	SignedIn bool
	Flashes  []session.Flash
	Data     any
}

// render writes the named page. Pending flash messages are consumed; extra
// flashes are shown on this render only, without touching the cookie — used
// by form re-renders that do not redirect.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any, extra ...session.Flash) {
	t, ok := h.templates[name]
	if !ok {
		h.serverError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}
	username, signedIn := h.sessions.Current(r)
	p := page{
		Username: username,
		SignedIn: signedIn,
		Flashes:  append(session.TakeFlashes(w, r), extra...),
		Data:     data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", p); err != nil {
		h.logger.Errorw("render failed", "template", name, "err", err)
	}
}

// serverError handles the unexpected-error taxonomy: log and answer with a
// generic 500. Expected conditions never reach this path.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "err", err)
	http.Error(w, "Something went wrong.", http.StatusInternalServerError)
}

// store returns a façade bound to the current session's username.
func (h *Handler) store(r *http.Request) Store {
	username, _ := h.sessions.Current(r)
	return h.stores(username)
}

// RequireAuth redirects unauthenticated visitors to the signin page,
// remembering where they were headed.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sessions.Current(r); !ok {
			h.sessions.RememberRedirect(w, r.URL.RequestURI())
			http.Redirect(w, r, "/users/signin", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// pathID parses a numeric path segment. ok is false for anything that is not
// a positive integer.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// currentPage parses the optional ?page query parameter (1-based).
// ok is false when the parameter is present but not a positive integer.
func currentPage(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// pagination carries the numbers the templates need for page links.
type pagination struct {
	Current  int
	Total    int
	PerPage  int
	BasePath string
}

func paginate(basePath string, current, total int) pagination {
	return pagination{Current: current, Total: total, PerPage: itemsPerPage, BasePath: basePath}
}

func (p pagination) Pages() int {
	n := (p.Total + p.PerPage - 1) / p.PerPage
	if n < 1 {
		n = 1
	}
	return n
}

func (p pagination) HasPrev() bool { return p.Current > 1 }
func (p pagination) HasNext() bool { return p.Current < p.Pages() }
func (p pagination) Prev() int     { return p.Current - 1 }
func (p pagination) Next() int     { return p.Current + 1 }
