package band

import "context"

// Repository defines band, membership, and join-request data storage.
type Repository interface {
	CreateBand(ctx context.Context, b *Band) error
	GetBandByID(ctx context.Context, id string) (*Band, error)
	UpdateBand(ctx context.Context, b *Band) error
	ListBandsForUser(ctx context.Context, userID string) ([]*Band, error)

	AddMember(ctx context.Context, m *Member) error
	ListMembers(ctx context.Context, bandID string) ([]*Member, error)
	GetMemberRole(ctx context.Context, bandID, userID string) (Role, error)
	UpdateMemberRole(ctx context.Context, bandID, userID string, role Role) error
	RemoveMember(ctx context.Context, bandID, userID string) error

	CreateRequest(ctx context.Context, req *JoinRequest) error
	GetRequestByID(ctx context.Context, id string) (*JoinRequest, error)
	ListPendingRequests(ctx context.Context, bandID string) ([]*JoinRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status RequestStatus) error
}

// MemberReader is the slice of Repository that sibling modules need for role
// gating. A lookup for a non-member returns RoleNone, not an error.
type MemberReader interface {
	GetMemberRole(ctx context.Context, bandID, userID string) (Role, error)
}
