package simplesocial

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies a target social platform.
type Platform string

// Supported platforms.
const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
	PlatformThreads   Platform = "threads"
)

// ContentType is the domain type for raw content kinds.
type ContentType string

// Content type constants (typed).
const (
	ContentTypeClip     ContentType = "clip"
	ContentTypeBlog     ContentType = "blog"
	ContentTypeImage    ContentType = "image"
	ContentTypeCarousel ContentType = "carousel"
	ContentTypeDraft    ContentType = "draft"
)

// PlatformLimits holds the hard constraints a platform imposes on a post.
// Durations are in seconds; zero means the platform imposes no bound.
// OptimalHours are hour-of-day hints (UTC).
type PlatformLimits struct {
	CaptionLength int   `json:"caption_length"`
	HashtagLimit  int   `json:"hashtag_limit"`
	MinDuration   int   `json:"min_duration,omitempty"`
	MaxDuration   int   `json:"max_duration,omitempty"`
	OptimalHours  []int `json:"optimal_hours"`
}

// RawContentItem is a single piece of creator content before staging.
// It is owned by the caller and never mutated by the library.
type RawContentItem struct {
	Type         ContentType `json:"type"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Duration     int         `json:"duration,omitempty"` // seconds, clips only
	Transcript   string      `json:"transcript,omitempty"`
	Excerpt      string      `json:"excerpt,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	MediaURLs    []string    `json:"media_urls,omitempty"`
	MediaKeys    []string    `json:"media_keys,omitempty"` // resolved through the configured MediaStore
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Link         string      `json:"link,omitempty"` // canonical URL, blogs mostly
}

// PlatformContent is one platform's post candidate for a staged item.
// Hashtags are stored without the leading '#', deduplicated
// case-insensitively with the first-seen display casing preserved.
type PlatformContent struct {
	Caption          string   `json:"caption"`
	Hashtags         []string `json:"hashtags"`
	CTA              string   `json:"cta,omitempty"`
	AltText          string   `json:"alt_text,omitempty"`
	Link             string   `json:"link,omitempty"`
	CharacterCount   int      `json:"character_count"`
	IsValid          bool     `json:"is_valid"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// StagedContent is a content item normalized into per-platform post
// candidates. It is immutable after creation; regenerating one platform
// produces a new PlatformContent entry for that key only.
type StagedContent struct {
	ID              uuid.UUID                    `json:"id"`
	Type            ContentType                  `json:"type"`
	Title           string                       `json:"title"`
	OriginalData    map[string]interface{}       `json:"original_data,omitempty"` // opaque caller reference
	Platforms       []Platform                   `json:"platforms"`
	PlatformContent map[Platform]PlatformContent `json:"platform_content"`
	MediaURLs       []string                     `json:"media_urls,omitempty"`
	ThumbnailURL    string                       `json:"thumbnail_url,omitempty"`
	Duration        int                          `json:"duration,omitempty"`
	EstimatedReach  int                          `json:"estimated_reach,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// EngagementPrediction is the heuristic estimate for one candidate slot.
// Score is clamped to [0,100]; BestTime is true for scores of 85 and above.
type EngagementPrediction struct {
	Score     int    `json:"score"`
	BestTime  bool   `json:"best_time"`
	Reasoning string `json:"reasoning"`
}

// ScheduledContent binds a staged item to one concrete publish timestamp.
// Records are never mutated; rescheduling produces a new record.
type ScheduledContent struct {
	ID                 uuid.UUID            `json:"id"`
	Content            *StagedContent       `json:"content"`
	ScheduledAt        time.Time            `json:"scheduled_at"`
	Platforms          []Platform           `json:"platforms"`
	Prediction         EngagementPrediction `json:"engagement_prediction"`
	OptimizationReason string               `json:"optimization_reason"`
	SuggestedHashtags  []string             `json:"suggested_hashtags"`
	CreatedAt          time.Time            `json:"created_at"`
}

// TimeSlot is one candidate daily posting time with its static ranking.
type TimeSlot struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Reason string `json:"reason"`
	Score  int    `json:"score"`
}

// SchedulePreferences carries user scheduling preferences for one run.
// Zero values fall back to the service defaults (7-day window starting now,
// 2 posts per day).
type SchedulePreferences struct {
	Timezone       string     `json:"timezone,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	PostsPerDay    int        `json:"posts_per_day,omitempty"`
	PreferredTimes []string   `json:"preferred_times,omitempty"` // "HH:MM"
	AvoidWeekends  bool       `json:"avoid_weekends,omitempty"`
}

// HistoricalStats feeds past performance into the engagement predictor.
// HourlyEngagement maps hour-of-day to an average engagement rate in [0,1];
// when an hour is present its scaled value replaces the base score.
type HistoricalStats struct {
	HourlyEngagement map[int]float64 `json:"hourly_engagement,omitempty"`
	BestDays         []time.Weekday  `json:"best_days,omitempty"`
}

// ScheduleResult is the outcome of one scheduling run. A non-empty
// Unscheduled list signals partial success: the window was exhausted before
// every item found a slot.
type ScheduleResult struct {
	Scheduled   []*ScheduledContent `json:"scheduled"`
	Unscheduled []*StagedContent    `json:"unscheduled,omitempty"`
}
