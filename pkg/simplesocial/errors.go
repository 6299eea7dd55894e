package simplesocial

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrPlatformNotFound indicates a lookup for a platform that has no
	// limits entry. This is a caller bug, never recovered internally.
	ErrPlatformNotFound = errors.New("platform not found")

	// ErrContentNotFound indicates a staged content record was not found
	ErrContentNotFound = errors.New("staged content not found")

	// ErrRateLimitExceeded indicates the per-user generation budget is spent.
	// Callers should back off and retry later, not immediately.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrGenerationUnavailable indicates the generation collaborator timed
	// out, errored, or returned a malformed response. Recovered internally
	// via deterministic fallback templates.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrInvalidPreferences indicates malformed scheduling preferences
	ErrInvalidPreferences = errors.New("invalid schedule preferences")

	// ErrNoItems indicates a scheduling run was requested with no content
	ErrNoItems = errors.New("no content items to schedule")

	// ErrNoPlatforms indicates an item ended up with no target platforms
	ErrNoPlatforms = errors.New("no target platforms")
)

// ValidationError reports a hard platform-constraint violation for one item
// on one platform. It is a per-item rejection, never a batch-wide abort.
type ValidationError struct {
	Platform Platform
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s %s", e.Platform, e.Field, e.Reason)
}

// StageError represents an error staging one content item
type StageError struct {
	ContentID uuid.UUID
	Platform  Platform
	Op        string
	Err       error
}

func (e *StageError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("stage operation %s failed for content %s on %s: %v", e.Op, e.ContentID, e.Platform, e.Err)
	}
	return fmt.Sprintf("stage operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ScheduleError represents an error during a scheduling run
type ScheduleError struct {
	Op  string
	Err error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("schedule operation %s failed: %v", e.Op, e.Err)
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}
