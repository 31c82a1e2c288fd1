package integration

import (
	"context"
	"os"
	"testing"

	"trashcash_webapp/internal/db"
	"trashcash_webapp/internal/domain"
	"trashcash_webapp/internal/repository"
	"trashcash_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := db.Connect(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(context.Background(), pool))
	return pool
}

func reset(t *testing.T, pool *pgxpool.Pool, userID int64) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `DELETE FROM accounts WHERE user_id = $1`, userID)
	require.NoError(t, err)
}

func TestPostgresAccountStore_UpdateAndGet(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	const userID = 990001
	reset(t, pool, userID)

	store := repository.NewPostgresAccountStore(pool)

	_, err := store.Get(ctx, userID)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	_, err = store.Update(ctx, userID, func(a *domain.Account) error {
		a.FirstName = "Ann"
		a.Balance += 30
		a.AddTransaction(&domain.Transaction{Type: domain.TxRecycling, Coins: 30, PointID: 1, MaterialType: "стекло", Weight: 2.5})
		return nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, int64(30), got.Balance)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, "стекло", got.Transactions[0].MaterialType)
	assert.InDelta(t, 2.5, got.Transactions[0].Weight, 1e-9)
}

func TestRewardsService_OnPostgres(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	const userID = 990002
	reset(t, pool, userID)

	svc := service.NewRewardsService(repository.NewPostgresAccountStore(pool), nil)

	_, err := svc.SubmitRecycling(ctx, userID, service.SubmitRequest{Method: "qr", QRCode: "TRASH_005", MaterialType: "электроника", Weight: 4})
	require.NoError(t, err)

	res, err := svc.PurchaseReward(ctx, userID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Balance)

	rewards, err := svc.MyRewards(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, int64(2), rewards[0].RewardID)

	txs, err := svc.Transactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TxPurchase, txs[0].Type)
}

func TestPostgresAccountStore_CorruptMetaIsAnError(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	const userID = 990003
	reset(t, pool, userID)

	_, err := pool.Exec(ctx, `INSERT INTO accounts (user_id, balance) VALUES ($1, 10)`, userID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`INSERT INTO account_transactions (user_id, id, type, coins, meta) VALUES ($1, 1, 'recycling', 10, '{"weight":"heavy"}'::jsonb)`,
		userID,
	)
	require.NoError(t, err)

	_, err = repository.NewPostgresAccountStore(pool).Get(ctx, userID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrAccountNotFound)
}
