package band

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used when the service runs
// without a database.
type MemoryRepository struct {
	mu       sync.RWMutex
	bands    map[string]*Band
	members  map[string][]*Member // band id -> members
	requests map[string]*JoinRequest
}

// NewMemoryRepository creates an empty in-memory band repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bands:    make(map[string]*Band),
		members:  make(map[string][]*Member),
		requests: make(map[string]*JoinRequest),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) CreateBand(ctx context.Context, b *Band) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.bands[b.ID.String()] = &cp
	b.CreatedAt = cp.CreatedAt
	b.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *MemoryRepository) GetBandByID(ctx context.Context, id string) (*Band, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bands[id]
	if !ok {
		return nil, fmt.Errorf("band %s not found", id)
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryRepository) UpdateBand(ctx context.Context, b *Band) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bands[b.ID.String()]
	if !ok {
		return fmt.Errorf("band %s not found", b.ID)
	}
	cp := *b
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.bands[b.ID.String()] = &cp
	return nil
}

func (m *MemoryRepository) ListBandsForUser(ctx context.Context, userID string) ([]*Band, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Band
	for bandID, members := range m.members {
		for _, member := range members {
			if member.UserID.String() == userID {
				if b, ok := m.bands[bandID]; ok {
					cp := *b
					out = append(out, &cp)
				}
				break
			}
		}
	}
	return out, nil
}

func (m *MemoryRepository) AddMember(ctx context.Context, member *Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := member.BandID.String()
	for _, existing := range m.members[key] {
		if existing.UserID == member.UserID {
			return fmt.Errorf("user is already a member of this band")
		}
	}
	cp := *member
	cp.JoinedAt = time.Now().UTC()
	m.members[key] = append(m.members[key], &cp)
	member.JoinedAt = cp.JoinedAt
	return nil
}

func (m *MemoryRepository) ListMembers(ctx context.Context, bandID string) ([]*Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.members[bandID]
	out := make([]*Member, 0, len(members))
	for _, member := range members {
		cp := *member
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepository) GetMemberRole(ctx context.Context, bandID, userID string) (Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members[bandID] {
		if member.UserID.String() == userID {
			return member.Role, nil
		}
	}
	return RoleNone, nil
}

func (m *MemoryRepository) UpdateMemberRole(ctx context.Context, bandID, userID string, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[bandID] {
		if member.UserID.String() == userID {
			member.Role = role
			return nil
		}
	}
	return fmt.Errorf("member %s not found in band %s", userID, bandID)
}

func (m *MemoryRepository) RemoveMember(ctx context.Context, bandID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.members[bandID]
	for i, member := range members {
		if member.UserID.String() == userID {
			m.members[bandID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("member %s not found in band %s", userID, bandID)
}

func (m *MemoryRepository) CreateRequest(ctx context.Context, req *JoinRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	cp.CreatedAt = time.Now().UTC()
	m.requests[req.ID.String()] = &cp
	req.CreatedAt = cp.CreatedAt
	return nil
}

func (m *MemoryRepository) GetRequestByID(ctx context.Context, id string) (*JoinRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s not found", id)
	}
	cp := *req
	return &cp, nil
}

func (m *MemoryRepository) ListPendingRequests(ctx context.Context, bandID string) ([]*JoinRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*JoinRequest
	for _, req := range m.requests {
		if req.BandID.String() == bandID && req.Status == RequestPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepository) UpdateRequestStatus(ctx context.Context, id string, status RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("request %s not found", id)
	}
	req.Status = status
	return nil
}
