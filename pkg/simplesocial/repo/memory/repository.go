package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

// Repository implements simplesocial.Repository using in-memory storage
type Repository struct {
	mu        sync.RWMutex
	staged    map[uuid.UUID]*simplesocial.StagedContent
	scheduled map[uuid.UUID]*simplesocial.ScheduledContent
}

// New creates a new in-memory repository
func New() simplesocial.Repository {
	return &Repository{
		staged:    make(map[uuid.UUID]*simplesocial.StagedContent),
		scheduled: make(map[uuid.UUID]*simplesocial.ScheduledContent),
	}
}

func (r *Repository) SaveStagedContent(ctx context.Context, content *simplesocial.StagedContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	r.staged[content.ID] = copyStaged(content)
	return nil
}

func (r *Repository) GetStagedContent(ctx context.Context, id uuid.UUID) (*simplesocial.StagedContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.staged[id]
	if !exists {
		return nil, simplesocial.ErrContentNotFound
	}
	return copyStaged(content), nil
}

func (r *Repository) ListStagedContent(ctx context.Context) ([]*simplesocial.StagedContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*simplesocial.StagedContent, 0, len(r.staged))
	for _, content := range r.staged {
		out = append(out, copyStaged(content))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repository) DeleteStagedContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.staged[id]; !exists {
		return simplesocial.ErrContentNotFound
	}
	delete(r.staged, id)
	return nil
}

func (r *Repository) SaveScheduledContent(ctx context.Context, content *simplesocial.ScheduledContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scheduled[content.ID] = copyScheduled(content)
	return nil
}

func (r *Repository) ListScheduledContent(ctx context.Context) ([]*simplesocial.ScheduledContent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*simplesocial.ScheduledContent, 0, len(r.scheduled))
	for _, content := range r.scheduled {
		out = append(out, copyScheduled(content))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func copyStaged(content *simplesocial.StagedContent) *simplesocial.StagedContent {
	c := *content
	c.Platforms = append([]simplesocial.Platform(nil), content.Platforms...)
	c.MediaURLs = append([]string(nil), content.MediaURLs...)
	c.PlatformContent = make(map[simplesocial.Platform]simplesocial.PlatformContent, len(content.PlatformContent))
	for p, pc := range content.PlatformContent {
		pc.Hashtags = append([]string(nil), pc.Hashtags...)
		pc.ValidationErrors = append([]string(nil), pc.ValidationErrors...)
		c.PlatformContent[p] = pc
	}
	return &c
}

func copyScheduled(content *simplesocial.ScheduledContent) *simplesocial.ScheduledContent {
	c := *content
	c.Platforms = append([]simplesocial.Platform(nil), content.Platforms...)
	c.SuggestedHashtags = append([]string(nil), content.SuggestedHashtags...)
	if content.Content != nil {
		c.Content = copyStaged(content.Content)
	}
	return &c
}
