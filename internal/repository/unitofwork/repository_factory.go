package unitofwork

import "context"

// RepositoryFactory opens request-scoped units of work over the shared
// database handle. Services hold the factory, never the handle itself.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
