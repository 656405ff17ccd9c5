package repository

import (
	"context"
	"database/sql"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/pkg/database"
)

// TxManager runs repository operations inside a database transaction. The
// transaction is carried on the context, so fn uses the same repositories it
// would outside one.
type TxManager struct {
	db *database.DB
}

// NewTxManager creates a new TxManager
func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithTransaction(func(tx *sql.Tx) error {
		return fn(WithTx(ctx, tx))
	})
}

// Verify interface compliance
var _ port.TransactionManager = (*TxManager)(nil)
