package domain

import "time"

const (
	TxRecycling = "recycling"
	TxPurchase  = "purchase"
)

// Transaction is one ledger line. Coins is negative for purchases.
// Only the fields of its Type are set.
type Transaction struct {
	ID           int64     `db:"id" json:"id"`
	Type         string    `db:"type" json:"type"`
	Coins        int64     `db:"coins" json:"coins"`
	Date         time.Time `db:"created_at" json:"date"`
	PointID      int64     `json:"point_id,omitempty"`
	PointName    string    `json:"point_name,omitempty"`
	MaterialType string    `json:"material_type,omitempty"`
	Weight       float64   `json:"weight,omitempty"`
	Method       string    `json:"method,omitempty"`
	RewardID     int64     `json:"reward_id,omitempty"`
	RewardName   string    `json:"reward_name,omitempty"`
}

func (t *Transaction) clone() *Transaction {
	c := *t
	return &c
}

// Purchase is a reward bought by the user.
type Purchase struct {
	ID         int64     `db:"id" json:"id"`
	RewardID   int64     `db:"reward_id" json:"reward_id"`
	RewardName string    `db:"reward_name" json:"reward_name"`
	Date       time.Time `db:"created_at" json:"date"`
	Price      int64     `db:"price" json:"price"`
	Type       string    `db:"type" json:"type"`
	CharityID  string    `db:"charity_id" json:"charity_id,omitempty"`
}
