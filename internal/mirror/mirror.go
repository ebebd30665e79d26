// Package mirror writes denormalized copies of created prayer requests to a
// secondary document store. Writes are best-effort: callers detach them from
// the request path and discard failures after logging.
package mirror

import "context"

// Mirror is the document-store boundary the persistence façade calls on
// prayer-request creation.
type Mirror interface {
	Write(ctx context.Context, username string, categoryID int64, title string) error
}

// Nop is used when no document store is configured.
type Nop struct{}

func (Nop) Write(ctx context.Context, username string, categoryID int64, title string) error {
	return nil
}
