package project

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used when the service runs
// without a database.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
	tasks    map[string]*Task
	comments map[string]*Comment
}

// NewMemoryRepository creates an empty in-memory project repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects: make(map[string]*Project),
		tasks:    make(map[string]*Task),
		comments: make(map[string]*Comment),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) CreateProject(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.projects[p.ID.String()] = &cp
	p.CreatedAt = cp.CreatedAt
	p.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *MemoryRepository) GetProjectByID(ctx context.Context, id string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) ListProjects(ctx context.Context, bandID string) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Project
	for _, p := range m.projects {
		if p.BandID.String() == bandID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepository) UpdateProject(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.projects[p.ID.String()]
	if !ok {
		return fmt.Errorf("project %s not found", p.ID)
	}
	cp := *p
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.projects[p.ID.String()] = &cp
	return nil
}

func (m *MemoryRepository) DeleteProject(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %s not found", id)
	}
	delete(m.projects, id)
	for tid, t := range m.tasks {
		if t.ProjectID.String() == id {
			delete(m.tasks, tid)
		}
	}
	for cid, c := range m.comments {
		if c.ProjectID.String() == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *MemoryRepository) CreateTask(ctx context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.tasks[t.ID.String()] = &cp
	t.CreatedAt = cp.CreatedAt
	t.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *MemoryRepository) GetTaskByID(ctx context.Context, id string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s not found", id)
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryRepository) ListTasks(ctx context.Context, projectID string) ([]*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Task
	for _, t := range m.tasks {
		if t.ProjectID.String() == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryRepository) UpdateTask(ctx context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tasks[t.ID.String()]
	if !ok {
		return fmt.Errorf("task %s not found", t.ID)
	}
	cp := *t
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.tasks[t.ID.String()] = &cp
	return nil
}

func (m *MemoryRepository) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %s not found", id)
	}
	delete(m.tasks, id)
	return nil
}

func (m *MemoryRepository) ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range orderedIDs {
		t, ok := m.tasks[id]
		if !ok || t.ProjectID.String() != projectID {
			return fmt.Errorf("task %s not found in project %s", id, projectID)
		}
		t.Position = i
		t.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MemoryRepository) CreateComment(ctx context.Context, c *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.CreatedAt = time.Now().UTC()
	m.comments[c.ID.String()] = &cp
	c.CreatedAt = cp.CreatedAt
	return nil
}

func (m *MemoryRepository) ListComments(ctx context.Context, projectID string) ([]*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Comment
	for _, c := range m.comments {
		if c.ProjectID.String() == projectID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryRepository) GetCommentByID(ctx context.Context, id string) (*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s not found", id)
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryRepository) DeleteComment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return fmt.Errorf("comment %s not found", id)
	}
	delete(m.comments, id)
	return nil
}
