package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stageside/merchtable-backend/internal/modules/band"
)

// Service defines inventory business logic for a band's merch items.
type Service interface {
	CreateItem(ctx context.Context, actorID string, req UpsertItemRequest) (*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context, actorID, bandID string) ([]*Item, error)
	UpdateItem(ctx context.Context, actorID, itemID string, req UpsertItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, actorID, itemID string) error
	// AdjustStock is the direct inventory-edit path; sale reconciliation
	// adjusts stock through the repository on its own authority.
	AdjustStock(ctx context.Context, actorID, itemID, label string, delta int) (*Item, error)
}

// UpsertItemRequest holds the writable item fields.
type UpsertItemRequest struct {
	BandID   string    `json:"band_id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	ImageURL string    `json:"image_url"`
	Variants []Variant `json:"variants"`
}

type service struct {
	repo    Repository
	members band.MemberReader
}

// NewService creates a new inventory service.
func NewService(repo Repository, members band.MemberReader) Service {
	return &service{repo: repo, members: members}
}

func (s *service) CreateItem(ctx context.Context, actorID string, req UpsertItemRequest) (*Item, error) {
	bandID, err := uuid.Parse(req.BandID)
	if err != nil {
		return nil, fmt.Errorf("invalid band_id: %w", err)
	}
	if err := s.requireEditor(ctx, req.BandID, actorID); err != nil {
		return nil, err
	}
	variants, err := normaliseVariants(req.Variants)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	item := &Item{
		ID:       uuid.New(),
		BandID:   bandID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		ImageURL: req.ImageURL,
		Variants: variants,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetItemByID(ctx, id)
}

func (s *service) ListItems(ctx context.Context, actorID, bandID string) ([]*Item, error) {
	role, err := s.members.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return nil, err
	}
	if role == band.RoleNone {
		return nil, fmt.Errorf("forbidden: not a member of this band")
	}
	return s.repo.ListItems(ctx, bandID)
}

func (s *service) UpdateItem(ctx context.Context, actorID, itemID string, req UpsertItemRequest) (*Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditor(ctx, item.BandID.String(), actorID); err != nil {
		return nil, err
	}
	variants, err := normaliseVariants(req.Variants)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) != "" {
		item.Name = strings.TrimSpace(req.Name)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}
	item.Price = req.Price
	item.ImageURL = req.ImageURL
	item.Variants = variants
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, actorID, itemID string) error {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.requireEditor(ctx, item.BandID.String(), actorID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, itemID)
}

func (s *service) AdjustStock(ctx context.Context, actorID, itemID, label string, delta int) (*Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditor(ctx, item.BandID.String(), actorID); err != nil {
		return nil, err
	}
	if _, ok := item.Variant(label); !ok {
		return nil, fmt.Errorf("variant %q not found on item %s", label, item.Name)
	}
	if err := s.repo.AdjustStock(ctx, itemID, label, delta); err != nil {
		return nil, err
	}
	return s.repo.GetItemByID(ctx, itemID)
}

func (s *service) requireEditor(ctx context.Context, bandID, actorID string) error {
	role, err := s.members.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return err
	}
	if !role.Can(band.ActionEditInventory) {
		return fmt.Errorf("forbidden: role %q cannot edit inventory", role)
	}
	return nil
}

// normaliseVariants validates labels and stock, defaulting an empty list to a
// single zero-stock universal variant.
func normaliseVariants(variants []Variant) ([]Variant, error) {
	if len(variants) == 0 {
		return []Variant{{Label: UniversalLabel, Stock: 0}}, nil
	}
	seen := make(map[string]bool, len(variants))
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		label := strings.TrimSpace(v.Label)
		if label == "" {
			return nil, fmt.Errorf("variant label is required")
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate variant label: %s", label)
		}
		if v.Stock < 0 {
			return nil, fmt.Errorf("initial stock cannot be negative for variant %s", label)
		}
		seen[label] = true
		out = append(out, Variant{Label: label, Stock: v.Stock})
	}
	return out, nil
}
