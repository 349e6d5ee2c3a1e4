// Package snapshot serves the aggregate per-band read that clients refetch
// wholesale after any mutation. It owns no state; it composes the other
// modules' repositories and recomputes the caller's role on every request.
package snapshot

import (
	"context"
	"fmt"

	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/inventory"
	"github.com/stageside/merchtable-backend/internal/modules/pos"
	"github.com/stageside/merchtable-backend/internal/modules/project"
)

// Snapshot is everything a client needs to render one band. Sales and join
// requests are role-gated: callers below the required role get empty lists,
// not errors, so one response shape serves every member.
type Snapshot struct {
	Band     *band.Band          `json:"band"`
	Role     band.Role           `json:"role"`
	Members  []*band.Member      `json:"members"`
	Items    []*inventory.Item   `json:"items"`
	Sales    []*pos.Sale         `json:"sales"`
	Projects []*project.Project  `json:"projects"`
	Requests []*band.JoinRequest `json:"requests"`
}

// Service assembles band snapshots.
type Service interface {
	BandSnapshot(ctx context.Context, actorID, bandID string) (*Snapshot, error)
}

type service struct {
	bands     band.Repository
	inventory inventory.Repository
	sales     pos.Repository
	projects  project.Repository
}

// NewService creates a new snapshot service.
func NewService(bands band.Repository, inv inventory.Repository, sales pos.Repository, projects project.Repository) Service {
	return &service{bands: bands, inventory: inv, sales: sales, projects: projects}
}

func (s *service) BandSnapshot(ctx context.Context, actorID, bandID string) (*Snapshot, error) {
	role, err := s.bands.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return nil, err
	}
	if role == band.RoleNone {
		return nil, fmt.Errorf("forbidden: not a member of this band")
	}

	b, err := s.bands.GetBandByID(ctx, bandID)
	if err != nil {
		return nil, err
	}
	members, err := s.bands.ListMembers(ctx, bandID)
	if err != nil {
		return nil, err
	}
	items, err := s.inventory.ListItems(ctx, bandID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListProjects(ctx, bandID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Band:     b,
		Role:     role,
		Members:  members,
		Items:    items,
		Sales:    []*pos.Sale{},
		Projects: projects,
		Requests: []*band.JoinRequest{},
	}

	if role.Can(band.ActionViewHistory) {
		sales, err := s.sales.ListSalesByBand(ctx, bandID)
		if err != nil {
			return nil, err
		}
		if sales != nil {
			snap.Sales = sales
		}
	}
	if role.Can(band.ActionApproveRequests) {
		requests, err := s.bands.ListPendingRequests(ctx, bandID)
		if err != nil {
			return nil, err
		}
		if requests != nil {
			snap.Requests = requests
		}
	}
	return snap, nil
}
