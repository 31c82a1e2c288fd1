package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trashcash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresAccountStore keeps accounts in the tables from
// internal/migrations.
type PostgresAccountStore struct {
	db *pgxpool.Pool
}

func NewPostgresAccountStore(db *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

// txMeta is the type-specific part of a transaction, stored as jsonb.
type txMeta struct {
	PointID      int64   `json:"point_id,omitempty"`
	PointName    string  `json:"point_name,omitempty"`
	MaterialType string  `json:"material_type,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Method       string  `json:"method,omitempty"`
	RewardID     int64   `json:"reward_id,omitempty"`
	RewardName   string  `json:"reward_name,omitempty"`
}

func (s *PostgresAccountStore) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	return s.load(ctx, s.db, userID, false)
}

func (s *PostgresAccountStore) Put(ctx context.Context, acc *domain.Account) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := upsertAccount(ctx, tx, acc); err != nil {
		return err
	}
	if err := insertHistory(ctx, tx, acc, 0, 0); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresAccountStore) Update(ctx context.Context, userID int64, fn func(acc *domain.Account) error) (*domain.Account, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO accounts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("ensure account: %w", err)
	}

	acc, err := s.load(ctx, tx, userID, true)
	if err != nil {
		return nil, err
	}
	knownTx, knownRewards := len(acc.Transactions), len(acc.Rewards)

	if err := fn(acc); err != nil {
		return nil, err
	}

	if err := upsertAccount(ctx, tx, acc); err != nil {
		return nil, err
	}
	if err := insertHistory(ctx, tx, acc, knownTx, knownRewards); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *PostgresAccountStore) load(ctx context.Context, q querier, userID int64, forUpdate bool) (*domain.Account, error) {
	query := `SELECT user_id, first_name, last_name, balance, created_at FROM accounts WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var acc domain.Account
	if err := q.QueryRow(ctx, query, userID).Scan(
		&acc.UserID,
		&acc.FirstName,
		&acc.LastName,
		&acc.Balance,
		&acc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	txs, err := loadTransactions(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	acc.Transactions = txs

	rewards, err := loadRewards(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	acc.Rewards = rewards

	return &acc, nil
}

func loadTransactions(ctx context.Context, q querier, userID int64) ([]*domain.Transaction, error) {
	rows, err := q.Query(ctx,
		`SELECT id, type, coins, meta, created_at
		 FROM account_transactions
		 WHERE user_id = $1
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var (
			tx       domain.Transaction
			metaJSON []byte
		)
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.Coins, &metaJSON, &tx.Date); err != nil {
			return nil, err
		}
		if err := applyMeta(&tx, metaJSON); err != nil {
			return nil, err
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}

// applyMeta fills the type-specific fields of tx from its jsonb column.
func applyMeta(tx *domain.Transaction, raw []byte) error {
	var meta txMeta
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("decode meta of transaction %d: %w", tx.ID, err)
		}
	}
	tx.PointID = meta.PointID
	tx.PointName = meta.PointName
	tx.MaterialType = meta.MaterialType
	tx.Weight = meta.Weight
	tx.Method = meta.Method
	tx.RewardID = meta.RewardID
	tx.RewardName = meta.RewardName
	return nil
}

func loadRewards(ctx context.Context, q querier, userID int64) ([]*domain.Purchase, error) {
	rows, err := q.Query(ctx,
		`SELECT id, reward_id, reward_name, price, type, charity_id, created_at
		 FROM account_rewards
		 WHERE user_id = $1
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.RewardID, &p.RewardName, &p.Price, &p.Type, &p.CharityID, &p.Date); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

func upsertAccount(ctx context.Context, q querier, acc *domain.Account) error {
	createdAt := acc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := q.Exec(ctx,
		`INSERT INTO accounts (user_id, first_name, last_name, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE
		 SET first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     balance = EXCLUDED.balance`,
		acc.UserID, acc.FirstName, acc.LastName, acc.Balance, createdAt,
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// insertHistory writes transactions and rewards past the given offsets.
// Rows that already exist are left untouched.
func insertHistory(ctx context.Context, q querier, acc *domain.Account, fromTx, fromRewards int) error {
	for _, tx := range acc.Transactions[fromTx:] {
		metaJSON, err := json.Marshal(txMeta{
			PointID:      tx.PointID,
			PointName:    tx.PointName,
			MaterialType: tx.MaterialType,
			Weight:       tx.Weight,
			Method:       tx.Method,
			RewardID:     tx.RewardID,
			RewardName:   tx.RewardName,
		})
		if err != nil {
			metaJSON = []byte("{}")
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO account_transactions (user_id, id, type, coins, meta, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id, id) DO NOTHING`,
			acc.UserID, tx.ID, tx.Type, tx.Coins, metaJSON, tx.Date,
		); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	for _, p := range acc.Rewards[fromRewards:] {
		if _, err := q.Exec(ctx,
			`INSERT INTO account_rewards (user_id, id, reward_id, reward_name, price, type, charity_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (user_id, id) DO NOTHING`,
			acc.UserID, p.ID, p.RewardID, p.RewardName, p.Price, p.Type, p.CharityID, p.Date,
		); err != nil {
			return fmt.Errorf("insert reward: %w", err)
		}
	}
	return nil
}
