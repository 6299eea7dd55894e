package simplesocial

import (
	"context"
	"time"
)

// Service defines the main interface for the simple-social library
type Service interface {
	// Staging operations
	StageContent(ctx context.Context, req StageContentRequest) (*StagedContent, error)
	StageBatch(ctx context.Context, req StageBatchRequest) (*StageBatchResult, error)
	RegeneratePlatformContent(ctx context.Context, req RegenerateRequest) (*StagedContent, error)

	// Scheduling operations
	ScheduleContent(ctx context.Context, req ScheduleContentRequest) (*ScheduleResult, error)

	// Pure helpers, exposed for callers that want the heuristics directly
	PredictEngagement(content *StagedContent, at time.Time, stats *HistoricalStats) EngagementPrediction
	SuggestHashtags(content *StagedContent, at time.Time) []string
}
