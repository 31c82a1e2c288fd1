package repository

import (
	"context"
	"sync"

	"trashcash_webapp/internal/domain"
)

// MemoryAccountStore is the process-local AccountStore. Data is lost on
// restart.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[int64]*domain.Account)}
}

func (s *MemoryAccountStore) Get(ctx context.Context, userID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[userID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc.Clone(), nil
}

func (s *MemoryAccountStore) Put(ctx context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[acc.UserID] = acc.Clone()
	return nil
}

func (s *MemoryAccountStore) Update(ctx context.Context, userID int64, fn func(acc *domain.Account) error) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var work *domain.Account
	if cur, ok := s.accounts[userID]; ok {
		work = cur.Clone()
	} else {
		work = domain.NewAccount(userID)
	}

	if err := fn(work); err != nil {
		return nil, err
	}

	s.accounts[userID] = work
	return work.Clone(), nil
}

// Len returns the number of stored accounts.
func (s *MemoryAccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
