// Package store is the persistence façade: entity-oriented operations over
// PostgreSQL, every one of them scoped to the username bound at construction.
//
// Result convention: mutations return (bool, error) where the bool means
// "exactly one row was affected". Expected conditions — not found, not owned,
// duplicate title or username — come back as (false, nil); loads come back as
// (nil, nil). Only unexpected database failures produce a non-nil error.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prayerpartner/service-web-go/internal/auth"
	"github.com/prayerpartner/service-web-go/internal/mirror"
	"github.com/prayerpartner/service-web-go/internal/store/entity"
)

const (
	pgUniqueViolation     = pq.ErrorCode("23505")
	pgForeignKeyViolation = pq.ErrorCode("23503")

	mirrorWriteTimeout = 10 * time.Second
)

// Store is a per-request value object bound to an immutable username.
// It holds no other mutable state, so constructing one per request and
// discarding it afterwards is the intended usage.
type Store struct {
	db       *sqlx.DB
	hasher   auth.PasswordHasher
	mirror   mirror.Mirror
	logger   *zap.SugaredLogger
	username string
}

// New binds a Store to the given username. An empty username is valid for
// the operations that do not require a signed-in user (Authenticate,
// CreateAccount).
func New(db *sqlx.DB, hasher auth.PasswordHasher, m mirror.Mirror, logger *zap.SugaredLogger, username string) *Store {
	return &Store{db: db, hasher: hasher, mirror: m, logger: logger, username: username}
}

// Username returns the bound username.
func (s *Store) Username() string { return s.username }

func isPGError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// rowAffected converts an Exec result into the exactly-one-row boolean.
func rowAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Authenticate checks username/password against the stored hash. A missing
// user is an ordinary false, never an error.
func (s *Store) Authenticate(ctx context.Context, username, password string) (bool, error) {
	const query = `SELECT password FROM users WHERE username = $1`

	var hash string
	if err := s.db.GetContext(ctx, &hash, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("find password hash: %w", err)
	}
	return s.hasher.Compare(password, hash), nil
}

// CreateAccount hashes the password and inserts the user. A duplicate
// username yields (false, nil); other failures propagate.
func (s *Store) CreateAccount(ctx context.Context, username, password string) (bool, error) {
	const query = `INSERT INTO users (username, password) VALUES ($1, $2)`

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, username, hash)
	if err != nil {
		if isPGError(err, pgUniqueViolation) {
			return false, nil
		}
		return false, fmt.Errorf("create account: %w", err)
	}
	return rowAffected(res)
}

// DeleteAccount removes the bound user. Categories and prayer requests go
// with it via ON DELETE CASCADE.
func (s *Store) DeleteAccount(ctx context.Context) (bool, error) {
	const query = `DELETE FROM users WHERE username = $1`

	res, err := s.db.ExecContext(ctx, query, s.username)
	if err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}
	return rowAffected(res)
}

// EditAccount rehashes and stores a new password for the bound user.
func (s *Store) EditAccount(ctx context.Context, password string) (bool, error) {
	const query = `UPDATE users SET password = $1 WHERE username = $2`

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, hash, s.username)
	if err != nil {
		return false, fmt.Errorf("edit account: %w", err)
	}
	return rowAffected(res)
}

// ExistsCategoryTitle reports whether the bound user already has a category
// with exactly this title.
func (s *Store) ExistsCategoryTitle(ctx context.Context, title string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM categories WHERE title = $1 AND username = $2)`

	var exists bool
	if err := s.db.GetContext(ctx, &exists, query, title, s.username); err != nil {
		return false, fmt.Errorf("check category title: %w", err)
	}
	return exists, nil
}

// CreateCategory inserts a category for the bound user. A duplicate
// (title, username) pair yields (false, nil).
func (s *Store) CreateCategory(ctx context.Context, title string) (bool, error) {
	const query = `INSERT INTO categories (title, username) VALUES ($1, $2)`

	res, err := s.db.ExecContext(ctx, query, title, s.username)
	if err != nil {
		if isPGError(err, pgUniqueViolation) {
			return false, nil
		}
		return false, fmt.Errorf("create category: %w", err)
	}
	return rowAffected(res)
}

// LoadCategory fetches one category and its prayer requests, both owned by
// the bound user. The two queries run concurrently and are joined in memory.
// Returns (nil, nil) when the category does not exist or belongs to someone
// else. Read skew between the two queries is accepted; there is no
// transaction around them.
func (s *Store) LoadCategory(ctx context.Context, categoryID int64) (*entity.Category, error) {
	const categoryQuery = `SELECT id, title, username FROM categories WHERE id = $1 AND username = $2`
	const requestsQuery = `SELECT id, title, category_id, username, answered FROM prayer_requests WHERE category_id = $1 AND username = $2`

	var (
		category entity.Category
		found    bool
		requests []*entity.PrayerRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.GetContext(gctx, &category, categoryQuery, categoryID, s.username)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		found = true
		return nil
	})
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &requests, requestsQuery, categoryID, s.username); err != nil {
			return fmt.Errorf("find prayer requests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	category.PrayerRequests = requests
	return &category, nil
}

// SetCategoryTitle updates a category title by id for the bound user.
func (s *Store) SetCategoryTitle(ctx context.Context, categoryID int64, title string) (bool, error) {
	const query = `UPDATE categories SET title = $1 WHERE id = $2 AND username = $3`

	res, err := s.db.ExecContext(ctx, query, title, categoryID, s.username)
	if err != nil {
		return false, fmt.Errorf("set category title: %w", err)
	}
	return rowAffected(res)
}

// DeleteCategory removes a category by id for the bound user; its prayer
// requests are removed by the cascade.
func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) (bool, error) {
	const query = `DELETE FROM categories WHERE id = $1 AND username = $2`

	res, err := s.db.ExecContext(ctx, query, categoryID, s.username)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return rowAffected(res)
}

// SortedCategories returns every category of the bound user ordered
// case-insensitively by title, each with its prayer requests attached.
// Categories and requests are fetched concurrently and matched on
// category_id in memory.
func (s *Store) SortedCategories(ctx context.Context) ([]*entity.Category, error) {
	const categoriesQuery = `SELECT id, title, username FROM categories WHERE username = $1 ORDER BY lower(title) ASC`
	const requestsQuery = `SELECT id, title, category_id, username, answered FROM prayer_requests WHERE username = $1`

	var (
		categories []*entity.Category
		requests   []*entity.PrayerRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &categories, categoriesQuery, s.username); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.SelectContext(gctx, &requests, requestsQuery, s.username); err != nil {
			return fmt.Errorf("list prayer requests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]*entity.PrayerRequest, len(categories))
	for _, r := range requests {
		byCategory[r.CategoryID] = append(byCategory[r.CategoryID], r)
	}
	for _, c := range categories {
		c.PrayerRequests = byCategory[c.ID]
	}
	return categories, nil
}

// PaginatedCategories returns one page of the bound user's categories in the
// same case-insensitive title order, without attached prayer requests.
func (s *Store) PaginatedCategories(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	const query = `SELECT id, title, username FROM categories WHERE username = $1 ORDER BY lower(title) ASC LIMIT $2 OFFSET $3`

	var categories []*entity.Category
	if err := s.db.SelectContext(ctx, &categories, query, s.username, limit, offset); err != nil {
		return nil, fmt.Errorf("paginate categories: %w", err)
	}
	return categories, nil
}

// CreatePrayerRequest inserts a prayer request under the given category for
// the bound user. The insert is guarded by category ownership: a category
// that does not exist, or belongs to someone else, inserts nothing and
// surfaces as (false, nil). On success the document-mirror copy is detached;
// its outcome never affects the return value.
func (s *Store) CreatePrayerRequest(ctx context.Context, categoryID int64, title string) (bool, error) {
	const query = `INSERT INTO prayer_requests (title, category_id, username) SELECT $1, c.id, c.username FROM categories c WHERE c.id = $2 AND c.username = $3`

	res, err := s.db.ExecContext(ctx, query, title, categoryID, s.username)
	if err != nil {
		// the guarded select can still race a concurrent category delete
		if isPGError(err, pgForeignKeyViolation) {
			return false, nil
		}
		return false, fmt.Errorf("create prayer request: %w", err)
	}
	created, err := rowAffected(res)
	if err != nil || !created {
		return created, err
	}

	s.detachMirrorWrite(categoryID, title)
	return true, nil
}

// detachMirrorWrite fires the best-effort document copy in the background.
// Failures (and panics) are logged and discarded.
func (s *Store) detachMirrorWrite(categoryID int64, title string) {
	username := s.username
	go func() {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Errorw("mirror write panicked", "panic", p, "username", username)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), mirrorWriteTimeout)
		defer cancel()
		if err := s.mirror.Write(ctx, username, categoryID, title); err != nil {
			s.logger.Errorw("mirror write failed",
				"err", err,
				"username", username,
				"category_id", categoryID,
			)
		}
	}()
}

// LoadPrayerRequest fetches one prayer request scoped by category, id and the
// bound user. Returns (nil, nil) when no such row is visible to this user.
func (s *Store) LoadPrayerRequest(ctx context.Context, categoryID, prayerRequestID int64) (*entity.PrayerRequest, error) {
	const query = `SELECT id, title, category_id, username, answered FROM prayer_requests WHERE category_id = $1 AND id = $2 AND username = $3`

	var request entity.PrayerRequest
	if err := s.db.GetContext(ctx, &request, query, categoryID, prayerRequestID, s.username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find prayer request: %w", err)
	}
	return &request, nil
}

// SetPrayerRequestTitle updates a prayer request title by id for the bound user.
func (s *Store) SetPrayerRequestTitle(ctx context.Context, prayerRequestID int64, title string) (bool, error) {
	const query = `UPDATE prayer_requests SET title = $1 WHERE id = $2 AND username = $3`

	res, err := s.db.ExecContext(ctx, query, title, prayerRequestID, s.username)
	if err != nil {
		return false, fmt.Errorf("set prayer request title: %w", err)
	}
	return rowAffected(res)
}

// AnswerPrayerRequest marks a prayer request answered. Idempotent: an already
// answered request still matches the row and reports true.
func (s *Store) AnswerPrayerRequest(ctx context.Context, prayerRequestID int64) (bool, error) {
	const query = `UPDATE prayer_requests SET answered = true WHERE id = $1 AND username = $2`

	res, err := s.db.ExecContext(ctx, query, prayerRequestID, s.username)
	if err != nil {
		return false, fmt.Errorf("answer prayer request: %w", err)
	}
	return rowAffected(res)
}

// DeletePrayerRequest removes a prayer request by id for the bound user,
// answered or not.
func (s *Store) DeletePrayerRequest(ctx context.Context, prayerRequestID int64) (bool, error) {
	const query = `DELETE FROM prayer_requests WHERE id = $1 AND username = $2`

	res, err := s.db.ExecContext(ctx, query, prayerRequestID, s.username)
	if err != nil {
		return false, fmt.Errorf("delete prayer request: %w", err)
	}
	return rowAffected(res)
}

// UnansweredPrayerRequests returns every unanswered request in the category,
// ordered case-insensitively by title.
func (s *Store) UnansweredPrayerRequests(ctx context.Context, categoryID int64) ([]*entity.PrayerRequest, error) {
	return s.sortedPrayerRequests(ctx, categoryID, false)
}

// AnsweredPrayerRequests returns every answered request in the category,
// ordered case-insensitively by title.
func (s *Store) AnsweredPrayerRequests(ctx context.Context, categoryID int64) ([]*entity.PrayerRequest, error) {
	return s.sortedPrayerRequests(ctx, categoryID, true)
}

// PaginatedUnansweredPrayerRequests returns one page of unanswered requests.
func (s *Store) PaginatedUnansweredPrayerRequests(ctx context.Context, categoryID int64, limit, offset int) ([]*entity.PrayerRequest, error) {
	return s.paginatedPrayerRequests(ctx, categoryID, false, limit, offset)
}

// PaginatedAnsweredPrayerRequests returns one page of answered requests.
func (s *Store) PaginatedAnsweredPrayerRequests(ctx context.Context, categoryID int64, limit, offset int) ([]*entity.PrayerRequest, error) {
	return s.paginatedPrayerRequests(ctx, categoryID, true, limit, offset)
}

func (s *Store) sortedPrayerRequests(ctx context.Context, categoryID int64, answered bool) ([]*entity.PrayerRequest, error) {
	const query = `SELECT id, title, category_id, username, answered FROM prayer_requests WHERE category_id = $1 AND username = $2 AND answered = $3 ORDER BY lower(title) ASC`

	var requests []*entity.PrayerRequest
	if err := s.db.SelectContext(ctx, &requests, query, categoryID, s.username, answered); err != nil {
		return nil, fmt.Errorf("list prayer requests: %w", err)
	}
	return requests, nil
}

func (s *Store) paginatedPrayerRequests(ctx context.Context, categoryID int64, answered bool, limit, offset int) ([]*entity.PrayerRequest, error) {
	const query = `SELECT id, title, category_id, username, answered FROM prayer_requests WHERE category_id = $1 AND username = $2 AND answered = $3 ORDER BY lower(title) ASC LIMIT $4 OFFSET $5`

	var requests []*entity.PrayerRequest
	if err := s.db.SelectContext(ctx, &requests, query, categoryID, s.username, answered, limit, offset); err != nil {
		return nil, fmt.Errorf("paginate prayer requests: %w", err)
	}
	return requests, nil
}
