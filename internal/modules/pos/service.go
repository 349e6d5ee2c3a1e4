package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/inventory"
	"github.com/stageside/merchtable-backend/internal/modules/user"
)

// Service defines POS business logic: recording sales and keeping variant
// stock consistent with the net effect of all recorded sales.
//
// Invariant (sequential operations): for any variant,
// initial_stock - sum(recorded sale quantities) == current_stock.
// The revert/reapply sequence is not atomic across lines; concurrent edits of
// sales touching the same variant can interleave.
type Service interface {
	RecordSale(ctx context.Context, actorID string, req RecordSaleRequest) (*Sale, error)
	GetSale(ctx context.Context, actorID, saleID string) (*Sale, error)
	ListSales(ctx context.Context, actorID, bandID string) ([]*Sale, error)
	UpdateSale(ctx context.Context, actorID, saleID string, req UpdateSaleRequest) (*Sale, error)
	DeleteSale(ctx context.Context, actorID, saleID string) error
}

type service struct {
	repo      Repository
	inventory inventory.Repository
	members   band.MemberReader
	users     user.Repository
}

// NewService creates a new POS service.
func NewService(repo Repository, inv inventory.Repository, members band.MemberReader, users user.Repository) Service {
	return &service{repo: repo, inventory: inv, members: members, users: users}
}

func (s *service) RecordSale(ctx context.Context, actorID string, req RecordSaleRequest) (*Sale, error) {
	if req.BandID == "" {
		return nil, fmt.Errorf("band_id is required")
	}
	bandID, err := uuid.Parse(req.BandID)
	if err != nil {
		return nil, fmt.Errorf("invalid band_id: %w", err)
	}
	if err := s.require(ctx, req.BandID, actorID, band.ActionRecordSale); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("sale must contain at least one item")
	}

	seller, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("seller not found: %w", err)
	}

	items, total, err := s.buildItems(ctx, req.BandID, req.Items)
	if err != nil {
		return nil, err
	}

	sale := &Sale{
		ID:         uuid.New(),
		BandID:     bandID,
		Items:      items,
		Total:      total,
		SellerID:   seller.ID,
		SellerName: seller.Name,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to persist sale: %w", err)
	}

	// Apply the stock effect, one line at a time. Oversell is not floored.
	for _, line := range sale.Items {
		if err := s.inventory.AdjustStock(ctx, line.ItemID.String(), line.VariantLabel, -line.Quantity); err != nil {
			return nil, fmt.Errorf("adjust stock for %s/%s: %w", line.ItemID, line.VariantLabel, err)
		}
	}
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, actorID, saleID string) (*Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := s.require(ctx, sale.BandID.String(), actorID, band.ActionViewHistory); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) ListSales(ctx context.Context, actorID, bandID string) ([]*Sale, error) {
	if err := s.require(ctx, bandID, actorID, band.ActionViewHistory); err != nil {
		return nil, err
	}
	return s.repo.ListSalesByBand(ctx, bandID)
}

// UpdateSale is a two-phase reconciliation. Line items can be added, removed,
// or requantified arbitrarily between versions and carry no stable identity,
// so diffing is not attempted: phase 1 reverts every original line, phase 2
// re-reads inventory and applies every updated line.
func (s *service) UpdateSale(ctx context.Context, actorID, saleID string, req UpdateSaleRequest) (*Sale, error) {
	original, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("sale not found: %w", err)
	}
	if err := s.require(ctx, original.BandID.String(), actorID, band.ActionEditSale); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("updated sale has no items; delete the sale instead")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for item %s", line.ItemID)
		}
	}

	// Phase 1: revert every original line.
	for _, line := range original.Items {
		if err := s.inventory.AdjustStock(ctx, line.ItemID.String(), line.VariantLabel, line.Quantity); err != nil {
			return nil, fmt.Errorf("revert stock for %s/%s: %w", line.ItemID, line.VariantLabel, err)
		}
	}

	// Phase 2: re-read inventory and apply every updated line.
	items, total, err := s.buildItems(ctx, original.BandID.String(), req.Items)
	if err != nil {
		return nil, err
	}
	for _, line := range items {
		if err := s.inventory.AdjustStock(ctx, line.ItemID.String(), line.VariantLabel, -line.Quantity); err != nil {
			return nil, fmt.Errorf("adjust stock for %s/%s: %w", line.ItemID, line.VariantLabel, err)
		}
	}

	updated := &Sale{
		ID:         original.ID,
		BandID:     original.BandID,
		Items:      items,
		Total:      total,
		SellerID:   original.SellerID,
		SellerName: original.SellerName,
		Timestamp:  original.Timestamp,
		CreatedAt:  original.CreatedAt,
	}
	if err := s.repo.ReplaceSale(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to persist updated sale: %w", err)
	}
	return updated, nil
}

func (s *service) DeleteSale(ctx context.Context, actorID, saleID string) error {
	sale, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("sale not found: %w", err)
	}
	if err := s.require(ctx, sale.BandID.String(), actorID, band.ActionEditSale); err != nil {
		return err
	}

	// Full revert, then drop the record.
	for _, line := range sale.Items {
		if err := s.inventory.AdjustStock(ctx, line.ItemID.String(), line.VariantLabel, line.Quantity); err != nil {
			return fmt.Errorf("revert stock for %s/%s: %w", line.ItemID, line.VariantLabel, err)
		}
	}
	return s.repo.DeleteSale(ctx, saleID)
}

// buildItems resolves cart lines against current inventory, snapshotting name
// and price per line.
func (s *service) buildItems(ctx context.Context, bandID string, lines []CartLine) ([]SaleItem, float64, error) {
	var items []SaleItem
	var total float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, fmt.Errorf("quantity must be > 0 for item %s", line.ItemID)
		}
		item, err := s.inventory.GetItemByID(ctx, line.ItemID)
		if err != nil {
			return nil, 0, fmt.Errorf("item %s not found", line.ItemID)
		}
		if item.BandID.String() != bandID {
			return nil, 0, fmt.Errorf("item %s does not belong to this band", line.ItemID)
		}
		if _, ok := item.Variant(line.VariantLabel); !ok {
			return nil, 0, fmt.Errorf("variant %q not found on item %s", line.VariantLabel, item.Name)
		}
		items = append(items, SaleItem{
			ItemID:       item.ID,
			VariantLabel: line.VariantLabel,
			Quantity:     line.Quantity,
			PriceAtSale:  item.Price,
			Name:         item.Name,
		})
		total += item.Price * float64(line.Quantity)
	}
	return items, round2(total), nil
}

func (s *service) require(ctx context.Context, bandID, actorID string, action band.Action) error {
	role, err := s.members.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return err
	}
	if !role.Can(action) {
		return fmt.Errorf("forbidden: role %q cannot %s", role, action)
	}
	return nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
