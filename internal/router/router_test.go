package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prayerpartner/service-web-go/internal/session"
	"github.com/prayerpartner/service-web-go/internal/store/entity"
	"github.com/prayerpartner/service-web-go/internal/web"
)

// emptyStore satisfies web.Store with zero values; routing tests only care
// about status codes and headers.
type emptyStore struct{}

func (emptyStore) Authenticate(context.Context, string, string) (bool, error)  { return false, nil }
func (emptyStore) CreateAccount(context.Context, string, string) (bool, error) { return false, nil }
func (emptyStore) DeleteAccount(context.Context) (bool, error)                 { return false, nil }
func (emptyStore) EditAccount(context.Context, string) (bool, error)           { return false, nil }
func (emptyStore) ExistsCategoryTitle(context.Context, string) (bool, error)   { return false, nil }
func (emptyStore) CreateCategory(context.Context, string) (bool, error)        { return false, nil }
func (emptyStore) LoadCategory(context.Context, int64) (*entity.Category, error) {
	return nil, nil
}
func (emptyStore) SetCategoryTitle(context.Context, int64, string) (bool, error) { return false, nil }
func (emptyStore) DeleteCategory(context.Context, int64) (bool, error)           { return false, nil }
func (emptyStore) SortedCategories(context.Context) ([]*entity.Category, error)  { return nil, nil }
func (emptyStore) PaginatedCategories(context.Context, int, int) ([]*entity.Category, error) {
	return nil, nil
}
func (emptyStore) CreatePrayerRequest(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (emptyStore) LoadPrayerRequest(context.Context, int64, int64) (*entity.PrayerRequest, error) {
	return nil, nil
}
func (emptyStore) SetPrayerRequestTitle(context.Context, int64, string) (bool, error) {
	return false, nil
}
func (emptyStore) AnswerPrayerRequest(context.Context, int64) (bool, error) { return false, nil }
func (emptyStore) DeletePrayerRequest(context.Context, int64) (bool, error) { return false, nil }
func (emptyStore) UnansweredPrayerRequests(context.Context, int64) ([]*entity.PrayerRequest, error) {
	return nil, nil
}
func (emptyStore) AnsweredPrayerRequests(context.Context, int64) ([]*entity.PrayerRequest, error) {
	return nil, nil
}
func (emptyStore) PaginatedUnansweredPrayerRequests(context.Context, int64, int, int) ([]*entity.PrayerRequest, error) {
	return nil, nil
}
func (emptyStore) PaginatedAnsweredPrayerRequests(context.Context, int64, int, int) ([]*entity.PrayerRequest, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.Config{Secret: "test-secret", TTL: time.Hour})
	h, err := web.NewHandler(func(string) web.Store { return emptyStore{} }, sessions, zap.NewNop().Sugar())
	require.NoError(t, err)
	return RegisterRoutes(zap.NewNop().Sugar(), h), sessions
}

func TestProtectedRoutesRedirectAnonymousVisitors(t *testing.T) {
	router, _ := newTestRouter(t)

	protected := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/categories"},
		{http.MethodPost, "/categories"},
		{http.MethodGet, "/categories/7"},
		{http.MethodGet, "/categories/7/answered"},
		{http.MethodPost, "/categories/7/delete"},
		{http.MethodPost, "/categories/7/prayerrequests"},
		{http.MethodPost, "/categories/7/prayerrequests/3/answer"},
		{http.MethodPost, "/categories/7/prayerrequests/3/delete"},
		{http.MethodPost, "/categories/7/prayerrequests/3/deleteanswered"},
		{http.MethodGet, "/users/edit"},
		{http.MethodPost, "/users/delete"},
	}
	for _, route := range protected {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.target, nil))
		assert.Equal(t, http.StatusFound, rec.Code, "%s %s", route.method, route.target)
		assert.Equal(t, "/users/signin", rec.Header().Get("Location"), "%s %s", route.method, route.target)
	}
}

func TestSigninPageIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/signin", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHomeRedirectsToCategories(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/categories", rec.Header().Get("Location"))
}

func TestSecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/signin", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/categories", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSignedInCategoryListRenders(t *testing.T) {
	router, sessions := newTestRouter(t)

	signin := httptest.NewRecorder()
	require.NoError(t, sessions.SignIn(signin, "alice"))

	r := httptest.NewRequest(http.MethodGet, "/categories", nil)
	for _, c := range signin.Result().Cookies() {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}
