package band

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stageside/merchtable-backend/internal/modules/user"
)

// Service defines band management business logic. Every mutating operation
// takes the acting user's id and enforces the role matrix before touching
// storage.
type Service interface {
	CreateBand(ctx context.Context, actorID string, req UpsertBandRequest) (*Band, error)
	GetBand(ctx context.Context, id string) (*Band, error)
	ListBandsForUser(ctx context.Context, userID string) ([]*Band, error)
	UpdateBand(ctx context.Context, actorID, bandID string, req UpsertBandRequest) (*Band, error)

	ListMembers(ctx context.Context, actorID, bandID string) ([]*Member, error)
	ChangeMemberRole(ctx context.Context, actorID, bandID, targetID string, role Role) error
	RemoveMember(ctx context.Context, actorID, bandID, targetID string) error
	MemberRole(ctx context.Context, bandID, userID string) (Role, error)

	RequestToJoin(ctx context.Context, actorID, bandID string) (*JoinRequest, error)
	ListRequests(ctx context.Context, actorID, bandID string) ([]*JoinRequest, error)
	ApproveRequest(ctx context.Context, actorID, requestID string) (*Member, error)
	RejectRequest(ctx context.Context, actorID, requestID string) error
}

// UpsertBandRequest holds the writable band fields.
type UpsertBandRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	PaymentNote  string          `json:"payment_note"`
	PaymentLinks json.RawMessage `json:"payment_links"`
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

// NewService creates a new band service.
func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{repo: repo, userRepo: userRepo}
}

func (s *service) CreateBand(ctx context.Context, actorID string, req UpsertBandRequest) (*Band, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	creator, err := s.userRepo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("creator not found: %w", err)
	}

	b := &Band{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PaymentNote:  req.PaymentNote,
		PaymentLinks: req.PaymentLinks,
	}
	if err := s.repo.CreateBand(ctx, b); err != nil {
		return nil, err
	}

	// The creator runs the band.
	m := &Member{
		BandID:    b.ID,
		UserID:    creator.ID,
		Name:      creator.Name,
		Email:     creator.Email,
		AvatarURL: creator.AvatarURL,
		Role:      RoleAdmin,
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBand(ctx context.Context, id string) (*Band, error) {
	return s.repo.GetBandByID(ctx, id)
}

func (s *service) ListBandsForUser(ctx context.Context, userID string) ([]*Band, error) {
	return s.repo.ListBandsForUser(ctx, userID)
}

func (s *service) UpdateBand(ctx context.Context, actorID, bandID string, req UpsertBandRequest) (*Band, error) {
	if err := s.require(ctx, bandID, actorID, ActionEditBand); err != nil {
		return nil, err
	}
	b, err := s.repo.GetBandByID(ctx, bandID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) != "" {
		b.Name = strings.TrimSpace(req.Name)
	}
	b.Description = req.Description
	b.ImageURL = req.ImageURL
	b.PaymentNote = req.PaymentNote
	b.PaymentLinks = req.PaymentLinks
	if err := s.repo.UpdateBand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListMembers(ctx context.Context, actorID, bandID string) ([]*Member, error) {
	role, err := s.repo.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return nil, err
	}
	if role == RoleNone {
		return nil, fmt.Errorf("not a member of this band")
	}
	return s.repo.ListMembers(ctx, bandID)
}

func (s *service) ChangeMemberRole(ctx context.Context, actorID, bandID, targetID string, role Role) error {
	if err := s.require(ctx, bandID, actorID, ActionManageMembers); err != nil {
		return err
	}
	if actorID == targetID {
		return fmt.Errorf("cannot change your own role")
	}
	current, err := s.repo.GetMemberRole(ctx, bandID, targetID)
	if err != nil {
		return err
	}
	if current == RoleNone {
		return fmt.Errorf("user is not a member of this band")
	}
	return s.repo.UpdateMemberRole(ctx, bandID, targetID, role)
}

func (s *service) RemoveMember(ctx context.Context, actorID, bandID, targetID string) error {
	if err := s.require(ctx, bandID, actorID, ActionManageMembers); err != nil {
		return err
	}
	if actorID == targetID {
		return fmt.Errorf("cannot remove yourself from the band")
	}
	return s.repo.RemoveMember(ctx, bandID, targetID)
}

func (s *service) MemberRole(ctx context.Context, bandID, userID string) (Role, error) {
	return s.repo.GetMemberRole(ctx, bandID, userID)
}

func (s *service) RequestToJoin(ctx context.Context, actorID, bandID string) (*JoinRequest, error) {
	role, err := s.repo.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return nil, err
	}
	if role != RoleNone {
		return nil, fmt.Errorf("already a member of this band")
	}
	u, err := s.userRepo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	bid, err := uuid.Parse(bandID)
	if err != nil {
		return nil, fmt.Errorf("invalid band id: %w", err)
	}
	pending, err := s.repo.ListPendingRequests(ctx, bandID)
	if err != nil {
		return nil, err
	}
	for _, p := range pending {
		if p.UserID == u.ID {
			return nil, fmt.Errorf("join request already pending")
		}
	}

	req := &JoinRequest{
		ID:     uuid.New(),
		BandID: bid,
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Status: RequestPending,
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListRequests(ctx context.Context, actorID, bandID string) ([]*JoinRequest, error) {
	if err := s.require(ctx, bandID, actorID, ActionApproveRequests); err != nil {
		return nil, err
	}
	return s.repo.ListPendingRequests(ctx, bandID)
}

func (s *service) ApproveRequest(ctx context.Context, actorID, requestID string) (*Member, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("request not found: %w", err)
	}
	if err := s.require(ctx, req.BandID.String(), actorID, ActionApproveRequests); err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, fmt.Errorf("request is already %s", req.Status)
	}

	u, err := s.userRepo.GetUserByID(ctx, req.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("requesting user not found: %w", err)
	}
	m := &Member{
		BandID:    req.BandID,
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      RoleMember,
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRequestStatus(ctx, requestID, RequestApproved); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) RejectRequest(ctx context.Context, actorID, requestID string) error {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("request not found: %w", err)
	}
	if err := s.require(ctx, req.BandID.String(), actorID, ActionApproveRequests); err != nil {
		return err
	}
	if req.Status != RequestPending {
		return fmt.Errorf("request is already %s", req.Status)
	}
	return s.repo.UpdateRequestStatus(ctx, requestID, RequestRejected)
}

// require resolves the actor's role in the band and checks the matrix.
func (s *service) require(ctx context.Context, bandID, actorID string, action Action) error {
	role, err := s.repo.GetMemberRole(ctx, bandID, actorID)
	if err != nil {
		return err
	}
	if !role.Can(action) {
		return fmt.Errorf("forbidden: role %q cannot %s", role, action)
	}
	return nil
}
