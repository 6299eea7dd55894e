package simplesocial

import (
	"context"

	"github.com/google/uuid"
)

// CaptionGenerator drafts a caption, hashtags and an optional call-to-action
// for one platform. Implementations must map their own timeouts, quota
// errors and schema mismatches to ErrGenerationUnavailable so the staging
// pipeline can take the deterministic fallback path.
type CaptionGenerator interface {
	GenerateCaption(ctx context.Context, req CaptionRequest) (*CaptionResult, error)
}

// TimeAdvisor suggests ranked daily posting slots for a batch. Best effort:
// any error falls back to the static slot table.
type TimeAdvisor interface {
	SuggestSlots(ctx context.Context, req AdvisoryRequest) ([]TimeSlot, error)
}

// RateLimiter guards calls to the generation collaborator with a per-user
// budget. CheckAndConsume returns ErrRateLimitExceeded once the budget for
// the current window is spent; the count-and-reset update must be atomic so
// concurrent staging for one user cannot bypass the budget.
type RateLimiter interface {
	CheckAndConsume(ctx context.Context, userID string) error
}

// Repository defines the interface for staged and scheduled content
// persistence. It is the engine's boundary to the external
// persistence/publishing collaborator; implementations live under
// subpackages (memory, postgres).
type Repository interface {
	SaveStagedContent(ctx context.Context, content *StagedContent) error
	GetStagedContent(ctx context.Context, id uuid.UUID) (*StagedContent, error)
	ListStagedContent(ctx context.Context) ([]*StagedContent, error)
	DeleteStagedContent(ctx context.Context, id uuid.UUID) error

	SaveScheduledContent(ctx context.Context, content *ScheduledContent) error
	ListScheduledContent(ctx context.Context) ([]*ScheduledContent, error)
}

// MediaStore resolves a media object key to a fetchable URL. The engine
// moves metadata only; no media bytes pass through it.
type MediaStore interface {
	ResolveURL(ctx context.Context, objectKey string) (string, error)
}

// CaptionRequest asks the generation collaborator for one platform's copy.
type CaptionRequest struct {
	UserID      string      `json:"user_id,omitempty"`
	ContentType ContentType `json:"content_type"`
	Platform    Platform    `json:"platform"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Context     string      `json:"context,omitempty"`  // project-level steering context
	Guidance    string      `json:"guidance,omitempty"` // platform best-practice hint
}

// CaptionResult is the collaborator's response for one platform.
type CaptionResult struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	CTA      string   `json:"cta,omitempty"`
}

// AdvisoryRequest describes a batch to the optimal-time advisor.
type AdvisoryRequest struct {
	ItemCount    int           `json:"item_count"`
	ContentTypes []ContentType `json:"content_types"`
	Platforms    []Platform    `json:"platforms"`
	Timezone     string        `json:"timezone"`
}
