package domain

import "time"

// Account is everything the app keeps per platform user.
// Transactions and Rewards are stored oldest first.
type Account struct {
	UserID       int64          `db:"user_id" json:"userId"`
	FirstName    string         `db:"first_name" json:"firstName,omitempty"`
	LastName     string         `db:"last_name" json:"lastName,omitempty"`
	Balance      int64          `db:"balance" json:"balance"`
	Transactions []*Transaction `json:"-"`
	Rewards      []*Purchase    `json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

func NewAccount(userID int64) *Account {
	return &Account{UserID: userID, CreatedAt: time.Now().UTC()}
}

// Clone returns a deep copy so a failed update never leaks partial changes.
func (a *Account) Clone() *Account {
	c := *a
	c.Transactions = make([]*Transaction, len(a.Transactions))
	for i, tx := range a.Transactions {
		c.Transactions[i] = tx.clone()
	}
	c.Rewards = make([]*Purchase, len(a.Rewards))
	for i, p := range a.Rewards {
		cp := *p
		c.Rewards[i] = &cp
	}
	return &c
}

// AddTransaction appends tx with the next per-account id.
func (a *Account) AddTransaction(tx *Transaction) {
	tx.ID = int64(len(a.Transactions)) + 1
	a.Transactions = append(a.Transactions, tx)
}

// AddPurchase appends p with the next per-account id.
func (a *Account) AddPurchase(p *Purchase) {
	p.ID = int64(len(a.Rewards)) + 1
	a.Rewards = append(a.Rewards, p)
}

// RecentTransactions returns up to limit transactions, newest first.
func (a *Account) RecentTransactions(limit int) []*Transaction {
	n := len(a.Transactions)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*Transaction, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.Transactions[i])
	}
	return out
}

type Stats struct {
	TotalRecycled     float64 `json:"totalRecycled"`
	TotalTransactions int     `json:"totalTransactions"`
	TotalRewards      int     `json:"totalRewards"`
	Level             int     `json:"level"`
	Points            int     `json:"points"`
}
