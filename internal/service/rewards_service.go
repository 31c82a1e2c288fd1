package service

import (
	"context"
	"errors"
	"math"
	"time"

	"trashcash_webapp/internal/catalog"
	"trashcash_webapp/internal/domain"
	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/repository"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidMethod       = errors.New("invalid method")
	ErrInvalidQRCode       = errors.New("invalid QR code")
	ErrPointNotFound       = errors.New("point not found")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrMaterialNotAccepted = errors.New("material not accepted at this point")
	ErrInvalidWeight       = errors.New("invalid weight")
)

const (
	MethodQR      = "qr"
	MethodReceipt = "receipt"

	DefaultWeight           = 1.0
	MaxWeight               = 1000.0
	DefaultTransactionLimit = 50
)

// BalanceEvent is published after every balance change.
type BalanceEvent struct {
	UserID      int64               `json:"-"`
	Balance     int64               `json:"balance"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
}

type EventPublisher interface {
	Publish(ev BalanceEvent)
}

type SubmitRequest struct {
	Method       string  `json:"method"`
	PointID      int64   `json:"pointId"`
	QRCode       string  `json:"qrCode"`
	ReceiptPhoto string  `json:"receiptPhoto"`
	MaterialType string  `json:"materialType"`
	Weight       float64 `json:"weight"`
}

type SubmitResult struct {
	Coins       int64               `json:"coins"`
	Balance     int64               `json:"balance"`
	Transaction *domain.Transaction `json:"transaction"`
}

type PurchaseResult struct {
	Balance  int64            `json:"balance"`
	Purchase *domain.Purchase `json:"purchase"`
}

// RewardsService implements the points economy on top of an AccountStore.
type RewardsService struct {
	store  repository.AccountStore
	events EventPublisher
	now    func() time.Time
}

// NewRewardsService wires the service. events may be nil.
func NewRewardsService(store repository.AccountStore, events EventPublisher) *RewardsService {
	return &RewardsService{store: store, events: events, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureAccount creates the record on first sight and refreshes the name.
func (s *RewardsService) EnsureAccount(ctx context.Context, userID int64, firstName, lastName string) (*domain.Account, error) {
	return s.store.Update(ctx, userID, func(a *domain.Account) error {
		if firstName != "" {
			a.FirstName = firstName
		}
		if lastName != "" {
			a.LastName = lastName
		}
		return nil
	})
}

func (s *RewardsService) Balance(ctx context.Context, userID int64) (int64, error) {
	acc, err := s.account(ctx, userID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (s *RewardsService) SubmitRecycling(ctx context.Context, userID int64, req SubmitRequest) (*SubmitResult, error) {
	var (
		point domain.RecyclingPoint
		ok    bool
	)
	switch req.Method {
	case MethodQR:
		point, ok = catalog.PointByQR(req.QRCode)
		if !ok {
			return nil, ErrInvalidQRCode
		}
	case MethodReceipt:
		point, ok = catalog.PointByID(req.PointID)
		if !ok {
			return nil, ErrPointNotFound
		}
	default:
		return nil, ErrInvalidMethod
	}

	if !point.Accepts(req.MaterialType) {
		return nil, ErrMaterialNotAccepted
	}

	weight := req.Weight
	if weight == 0 {
		weight = DefaultWeight
	}
	if weight < 0 || weight > MaxWeight || math.IsNaN(weight) {
		return nil, ErrInvalidWeight
	}

	coins := int64(weight * float64(catalog.Rate(req.MaterialType)))
	tx := &domain.Transaction{
		Type:         domain.TxRecycling,
		Coins:        coins,
		Date:         s.now(),
		PointID:      point.ID,
		PointName:    point.Name,
		MaterialType: req.MaterialType,
		Weight:       weight,
		Method:       req.Method,
	}

	acc, err := s.store.Update(ctx, userID, func(a *domain.Account) error {
		a.Balance += coins
		a.AddTransaction(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("recycling submitted",
		"user_id", userID, "point_id", point.ID, "material", req.MaterialType, "coins", coins)
	s.publish(acc.UserID, acc.Balance, tx)

	return &SubmitResult{Coins: coins, Balance: acc.Balance, Transaction: tx}, nil
}

func (s *RewardsService) PurchaseReward(ctx context.Context, userID, rewardID int64) (*PurchaseResult, error) {
	reward, ok := catalog.RewardByID(rewardID)
	if !ok {
		return nil, ErrRewardNotFound
	}

	now := s.now()
	purchase := &domain.Purchase{
		RewardID:   reward.ID,
		RewardName: reward.Name,
		Date:       now,
		Price:      reward.Price,
		Type:       reward.Type,
	}
	if reward.Type == domain.RewardDonation {
		purchase.CharityID = reward.CharityID
	}
	tx := &domain.Transaction{
		Type:       domain.TxPurchase,
		Coins:      -reward.Price,
		Date:       now,
		RewardID:   reward.ID,
		RewardName: reward.Name,
	}

	acc, err := s.store.Update(ctx, userID, func(a *domain.Account) error {
		if a.Balance < reward.Price {
			return ErrInsufficientFunds
		}
		a.Balance -= reward.Price
		a.AddPurchase(purchase)
		a.AddTransaction(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("reward purchased",
		"user_id", userID, "reward_id", reward.ID, "price", reward.Price)
	s.publish(acc.UserID, acc.Balance, tx)

	return &PurchaseResult{Balance: acc.Balance, Purchase: purchase}, nil
}

// Transactions returns up to limit entries, newest first.
func (s *RewardsService) Transactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	acc, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	return acc.RecentTransactions(limit), nil
}

func (s *RewardsService) MyRewards(ctx context.Context, userID int64) ([]*domain.Purchase, error) {
	acc, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.Rewards == nil {
		return []*domain.Purchase{}, nil
	}
	return acc.Rewards, nil
}

func (s *RewardsService) Stats(ctx context.Context, userID int64) (*domain.Stats, error) {
	acc, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, tx := range acc.Transactions {
		if tx.Type == domain.TxRecycling && tx.Weight > 0 {
			total += tx.Weight
		}
	}

	return &domain.Stats{
		TotalRecycled:     math.Round(total*10) / 10,
		TotalTransactions: len(acc.Transactions),
		TotalRewards:      len(acc.Rewards),
		Level:             int(total/100) + 1,
		Points:            int(math.Mod(total, 100)),
	}, nil
}

// account reads the record, creating an empty one for first-time users.
func (s *RewardsService) account(ctx context.Context, userID int64) (*domain.Account, error) {
	acc, err := s.store.Get(ctx, userID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return s.store.Update(ctx, userID, func(*domain.Account) error { return nil })
	}
	return acc, err
}

func (s *RewardsService) publish(userID, balance int64, tx *domain.Transaction) {
	if s.events == nil {
		return
	}
	s.events.Publish(BalanceEvent{UserID: userID, Balance: balance, Transaction: tx})
}
