package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/models"
)

type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type PlaceOrderInput struct {
	UserID    uint
	UserEmail string
	Lines     []CartLine
	Customer  CustomerDetails
}

// Service turns a client-side cart into a persisted order. All reads and
// writes of one attempt happen inside a single transaction: product stock is
// read, order lines are priced from that same read, the order is created and
// every product's stock is decremented conditionally on the value observed at
// read time. A concurrent checkout that wins the race makes the conditional
// update miss, the transaction rolls back and the whole attempt is retried.
type Service struct {
	DB          *gorm.DB
	MaxAttempts int
	Backoff     time.Duration
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:          db,
		MaxAttempts: 3,
		Backoff:     25 * time.Millisecond,
	}
}

func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (uint, error) {
	lines, err := validateInput(in)
	if err != nil {
		return 0, err
	}

	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		orderID, err := s.placeOnce(ctx, in, lines)
		if err == nil {
			return orderID, nil
		}
		if !isRetryable(err) {
			return 0, err
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(s.Backoff):
		}
	}
	return 0, ErrConflict
}

// validateInput rejects bad carts before anything touches the store. Lines
// referencing the same product are merged so the per-product stock check and
// decrement see the combined demand.
func validateInput(in PlaceOrderInput) ([]CartLine, error) {
	if in.UserID == 0 {
		return nil, fmt.Errorf("%w: you must be logged in to place an order", ErrValidation)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: your cart is empty", ErrValidation)
	}
	if strings.TrimSpace(in.Customer.Name) == "" ||
		strings.TrimSpace(in.Customer.Phone) == "" ||
		strings.TrimSpace(in.Customer.Address) == "" {
		return nil, fmt.Errorf("%w: delivery name, phone and address are required", ErrValidation)
	}

	merged := make([]CartLine, 0, len(in.Lines))
	index := make(map[uint]int, len(in.Lines))
	for _, line := range in.Lines {
		if line.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid quantity in cart", ErrValidation)
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

func (s *Service) placeOnce(ctx context.Context, in PlaceOrderInput, lines []CartLine) (uint, error) {
	var orderID uint

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := make(map[uint]models.Product, len(lines))
		for _, line := range lines {
			var p models.Product
			if err := tx.First(&p, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}
			if uint(line.Quantity) > p.Stock {
				return &InsufficientStockError{Product: p.Name}
			}
			products[line.ProductID] = p
		}

		// Order lines carry the catalog price read above, never a price the
		// client sent.
		items := make([]models.OrderItem, 0, len(lines))
		var total float64
		for _, line := range lines {
			p := products[line.ProductID]
			items = append(items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    uint(line.Quantity),
				UnitPrice:   p.RetailPrice,
			})
			total += p.RetailPrice * float64(line.Quantity)
		}
		total = roundCents(total)

		order := models.Order{
			UserID:          in.UserID,
			UserEmail:       strings.TrimSpace(in.UserEmail),
			CustomerName:    strings.TrimSpace(in.Customer.Name),
			CustomerPhone:   strings.TrimSpace(in.Customer.Phone),
			CustomerAddress: strings.TrimSpace(in.Customer.Address),
			Total:           total,
			Status:          models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		for _, line := range lines {
			p := products[line.ProductID]
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock = ?", p.ID, p.Stock).
				Update("stock", p.Stock-uint(line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}

		orderID = order.ID
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	return orderID, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "could not serialize access")
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
