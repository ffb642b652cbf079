package orders

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cillii/catalog-backend/internal/cart"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

// CustomerInfo is the free-form contact block the order form collects.
type CustomerInfo struct {
	FullName    string `json:"fullName" validate:"required"`
	Company     string `json:"company"`
	Phone       string `json:"phone" validate:"required"`
	SalesPerson string `json:"salesPerson"`
	Notes       string `json:"notes"`
}

// Export is the immutable order snapshot handed back to the client and kept
// in the session's history.
type Export struct {
	OrderID          int64           `json:"orderId"`
	CreatedAt        time.Time       `json:"createdAt"`
	CustomerInfo     CustomerInfo    `json:"customerInfo"`
	Items            []cart.Item     `json:"items"`
	KnownTotal       decimal.Decimal `json:"knownTotal"`
	TotalItems       int             `json:"totalItems"`
	HasUnknownPrices bool            `json:"hasUnknownPrices"`
	Language         string          `json:"language"`
}

// Service turns the current cart into order exports.
type Service struct {
	sequencer *Sequencer
	history   *History
	carts     *cart.Service
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(sequencer *Sequencer, history *History, carts *cart.Service, logg *logger.Logger) *Service {
	return &Service{
		sequencer: sequencer,
		history:   history,
		carts:     carts,
		logg:      logg,
		now:       time.Now,
	}
}

// Place snapshots the session's cart into an export with a fresh order id,
// records it in the session history and empties the cart.
func (s *Service) Place(ctx context.Context, sessionID string, info CustomerInfo, language string) (Export, error) {
	view, err := s.carts.Read(ctx, sessionID)
	if err != nil {
		return Export{}, err
	}
	if len(view.Items) == 0 {
		return Export{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderID, err := s.sequencer.Next(ctx)
	if err != nil {
		return Export{}, err
	}

	export := Export{
		OrderID:          orderID,
		CreatedAt:        s.now().UTC(),
		CustomerInfo:     info,
		Items:            view.Items,
		KnownTotal:       view.KnownTotal,
		TotalItems:       view.TotalItems,
		HasUnknownPrices: view.HasUnknownPrices,
		Language:         normalizeLanguage(language),
	}
	s.history.Add(sessionID, export)

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is already issued; a stale cart is a nuisance, not a
		// failure.
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "clearing cart after order failed")
	}
	return export, nil
}

// LastOrderID reports the most recently issued order id without consuming
// one. With no orders placed yet it reports the sequence start.
func (s *Service) LastOrderID(ctx context.Context) (int64, error) {
	return s.sequencer.Peek(ctx)
}

// History lists the session's placed orders, newest first.
func (s *Service) History(sessionID string) []Export {
	return s.history.List(sessionID)
}

// DeleteFromHistory removes one order from the session's history.
func (s *Service) DeleteFromHistory(sessionID string, orderID int64) error {
	if !s.history.Delete(sessionID, orderID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found in history")
	}
	return nil
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "en"
	}
	return language
}
