package simplesocial

// StageContentRequest contains parameters for staging one raw content item.
// Platforms, when set, overrides the candidate selection rules; every listed
// platform must exist in the limits table.
type StageContentRequest struct {
	UserID    string                 `json:"user_id"`
	Item      RawContentItem         `json:"item"`
	Context   string                 `json:"context,omitempty"` // project-level steering context
	Platforms []Platform             `json:"platforms,omitempty"`
	Original  map[string]interface{} `json:"original,omitempty"` // opaque caller reference
}

// StageBatchRequest stages several independent raw items. Items are
// processed concurrently; one item's failure never aborts the batch.
type StageBatchRequest struct {
	UserID  string           `json:"user_id"`
	Items   []RawContentItem `json:"items"`
	Context string           `json:"context,omitempty"`
}

// StageBatchResult pairs each input index with either a staged item or its
// per-item error. Staged preserves input order with failed entries nil.
type StageBatchResult struct {
	Staged []*StagedContent `json:"staged"`
	Errors []error          `json:"-"`
}

// RegenerateRequest re-requests generation for exactly one platform of an
// already staged item. The result is a new StagedContent with only that
// platform's entry replaced.
type RegenerateRequest struct {
	UserID   string         `json:"user_id"`
	Content  *StagedContent `json:"content"`
	Item     RawContentItem `json:"item"`
	Platform Platform       `json:"platform"`
	Context  string         `json:"context,omitempty"`
}

// ScheduleContentRequest contains parameters for one scheduling run.
type ScheduleContentRequest struct {
	Items       []*StagedContent    `json:"items"`
	Preferences SchedulePreferences `json:"preferences"`
	Stats       *HistoricalStats    `json:"stats,omitempty"`
}
