package repository

import "context"

// Tx exposes the repositories bound to one transaction.
type Tx interface {
	Users() UserRepository
	Confirmations() ConfirmationRepository
}

// Store runs fn inside a transaction: committed when fn returns nil,
// rolled back otherwise.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}
