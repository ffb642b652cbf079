package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cillii/catalog-backend/internal/classes"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

// Item is a cart line joined against the catalog at read time.
type Item struct {
	Record   classes.ClassDTO `json:"record"`
	Quantity int              `json:"quantity"`
}

// View is the enriched cart as the order form consumes it. KnownTotal sums
// only the lines whose product has a price; HasUnknownPrices flags that the
// total is partial.
type View struct {
	Items            []Item          `json:"items"`
	TotalItems       int             `json:"totalItems"`
	KnownTotal       decimal.Decimal `json:"knownTotal"`
	HasUnknownPrices bool            `json:"hasUnknownPrices"`
}

// Service owns cart mutations. The store is authoritative; the mirror gets a
// best-effort copy of every write and its failures are logged, never
// surfaced.
type Service struct {
	store   Store
	mirror  Mirror
	catalog *classes.Repository
	logg    *logger.Logger
}

func NewService(store Store, mirror Mirror, catalog *classes.Repository, logg *logger.Logger) *Service {
	if mirror == nil {
		mirror = NoopMirror{}
	}
	return &Service{store: store, mirror: mirror, catalog: catalog, logg: logg}
}

// Add puts one more unit of the product into the cart, verifying the product
// exists first.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64) error {
	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if classes.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "resolving product")
	}

	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading cart")
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{ProductID: productID, Quantity: 1})
	}
	return s.persist(ctx, sessionID, lines)
}

// SetQuantity pins a line to an exact quantity. Zero or negative removes the
// line.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading cart")
	}

	if quantity <= 0 {
		return s.persist(ctx, sessionID, removeLine(lines, productID))
	}

	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return s.persist(ctx, sessionID, lines)
		}
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if classes.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "resolving product")
	}
	return s.persist(ctx, sessionID, append(lines, Line{ProductID: productID, Quantity: quantity}))
}

// Remove drops the product's line if present.
func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) error {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading cart")
	}
	return s.persist(ctx, sessionID, removeLine(lines, productID))
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clearing cart")
	}
	if err := s.mirror.Delete(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart mirror delete failed")
	}
	return nil
}

// ReplaceAll swaps the whole cart for the given lines, dropping empty ones.
func (s *Service) ReplaceAll(ctx context.Context, sessionID string, lines []Line) error {
	kept := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	return s.persist(ctx, sessionID, kept)
}

// Read joins the stored lines against the catalog. Lines whose product no
// longer resolves are hidden from the view but stay in the store; a later
// re-import can bring them back.
func (s *Service) Read(ctx context.Context, sessionID string) (View, error) {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading cart")
	}

	view := View{Items: []Item{}, KnownTotal: decimal.Zero}
	if len(lines) == 0 {
		return view, nil
	}

	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	records, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "enriching cart")
	}
	byID := make(map[int64]classes.ClassDTO, len(records))
	for i := range records {
		byID[records[i].ID] = classes.NewClassDTO(&records[i])
	}

	for _, line := range lines {
		record, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		view.Items = append(view.Items, Item{Record: record, Quantity: line.Quantity})
		view.TotalItems += line.Quantity
		if record.ClassPrice == nil {
			view.HasUnknownPrices = true
			continue
		}
		lineTotal := record.ClassPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.KnownTotal = view.KnownTotal.Add(lineTotal)
	}
	return view, nil
}

func (s *Service) persist(ctx context.Context, sessionID string, lines []Line) error {
	if err := s.store.SaveLines(ctx, sessionID, lines); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "saving cart")
	}
	if err := s.mirror.Write(ctx, sessionID, lines); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart mirror write failed")
	}
	return nil
}

func removeLine(lines []Line, productID int64) []Line {
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	return kept
}
