package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jackela/catams/internal/domain/entity"
	"github.com/Jackela/catams/internal/domain/workflow"
	"github.com/Jackela/catams/internal/infrastructure/persistence/repository"
	"github.com/Jackela/catams/internal/infrastructure/persistence/sqlite"
	"github.com/Jackela/catams/pkg/database"
)

func setup(t *testing.T) (*sqlite.DB, *database.DB) {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run())

	return sqlite.NewDB(db.DB, logger), db
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	txManager, db := setup(t)
	users := repository.NewUserRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return users.Create(txCtx, &entity.User{
			Email: "tutor@uni.edu", Name: "Tess Tutor", Role: workflow.RoleTutor, CreatedAt: time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	got, err := users.GetByEmail(ctx, "tutor@uni.edu")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	txManager, db := setup(t)
	users := repository.NewUserRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	boom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := users.Create(txCtx, &entity.User{
			Email: "tutor@uni.edu", Name: "Tess Tutor", Role: workflow.RoleTutor, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The write inside the failed transaction is gone.
	got, err := users.GetByEmail(ctx, "tutor@uni.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWithTransaction_NestedCallJoinsTransaction(t *testing.T) {
	txManager, db := setup(t)
	users := repository.NewUserRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	boom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(outer context.Context) error {
		return txManager.WithTransaction(outer, func(inner context.Context) error {
			if err := users.Create(inner, &entity.User{
				Email: "tutor@uni.edu", Name: "Tess Tutor", Role: workflow.RoleTutor, CreatedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	// The inner failure rolled back the single shared transaction.
	got, err := users.GetByEmail(ctx, "tutor@uni.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTxFromContext(t *testing.T) {
	txManager, _ := setup(t)

	if _, ok := sqlite.TxFromContext(context.Background()); ok {
		t.Fatal("a bare context must not carry a transaction")
	}

	err := txManager.WithTransaction(context.Background(), func(txCtx context.Context) error {
		tx, ok := sqlite.TxFromContext(txCtx)
		if !ok || tx == nil {
			t.Error("transaction context does not carry the transaction")
		}
		return nil
	})
	require.NoError(t, err)
}
