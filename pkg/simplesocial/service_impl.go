package simplesocial

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultStageConcurrency = 4

// ScheduleDefaults are the service-level defaults applied when a
// SchedulePreferences field is left at its zero value.
type ScheduleDefaults struct {
	WindowDays    int
	PostsPerDay   int
	AvoidWeekends bool
}

// service implements the Service interface
type service struct {
	primary   CaptionGenerator
	generator CaptionGenerator // composed chain, built in New
	advisor   TimeAdvisor
	limiter   RateLimiter
	repo      Repository
	media     MediaStore
	logger    *slog.Logger
	now       func() time.Time
	rng       *rand.Rand
	workers   int
	defaults  ScheduleDefaults
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithCaptionGenerator sets the primary caption generator. Without one the
// service runs entirely on the deterministic fallback templates.
func WithCaptionGenerator(gen CaptionGenerator) Option {
	return func(s *service) {
		s.primary = gen
	}
}

// WithTimeAdvisor sets the optimal-time advisor for scheduling runs.
func WithTimeAdvisor(advisor TimeAdvisor) Option {
	return func(s *service) {
		s.advisor = advisor
	}
}

// WithRateLimiter sets the per-user budget guard on generation calls.
func WithRateLimiter(limiter RateLimiter) Option {
	return func(s *service) {
		s.limiter = limiter
	}
}

// WithRepository sets the persistence collaborator; staged and scheduled
// records are handed to it after each successful operation.
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithMediaStore sets the resolver for media object keys.
func WithMediaStore(store MediaStore) Option {
	return func(s *service) {
		s.media = store
	}
}

// WithLogger sets the logger for degraded-mode notices.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock injects the time source. Scheduling and record timestamps read
// it instead of the wall clock, which keeps runs deterministic under test.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithRand injects the RNG used to synthesize fallback slots.
func WithRand(rng *rand.Rand) Option {
	return func(s *service) {
		s.rng = rng
	}
}

// WithStageConcurrency bounds the fan-out of StageBatch.
func WithStageConcurrency(n int) Option {
	return func(s *service) {
		s.workers = n
	}
}

// WithScheduleDefaults overrides the built-in scheduling defaults.
func WithScheduleDefaults(d ScheduleDefaults) Option {
	return func(s *service) {
		s.defaults = d
	}
}

// New creates a new service instance with the given options. Every
// collaborator is optional; a bare New() yields a fully deterministic
// engine running on fallback templates and the static slot table.
func New(options ...Option) (Service, error) {
	s := &service{
		workers: defaultStageConcurrency,
		defaults: ScheduleDefaults{
			WindowDays:  7,
			PostsPerDay: 2,
		},
	}

	for _, option := range options {
		option(s)
	}

	if s.workers < 1 {
		return nil, fmt.Errorf("stage concurrency must be at least 1")
	}
	if s.defaults.WindowDays < 1 || s.defaults.PostsPerDay < 1 {
		return nil, fmt.Errorf("schedule defaults must be positive")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}

	fallback := NewFallbackGenerator()
	s.generator = fallback
	if s.primary != nil {
		primary := s.primary
		if s.limiter != nil {
			primary = &limitedGenerator{inner: primary, limiter: s.limiter}
		}
		s.generator = &resilientGenerator{primary: primary, fallback: fallback, logger: s.logger}
	}

	return s, nil
}

// Staging operations

func (s *service) StageContent(ctx context.Context, req StageContentRequest) (*StagedContent, error) {
	staged, err := s.stage(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.SaveStagedContent(ctx, staged); err != nil {
			return nil, &StageError{ContentID: staged.ID, Op: "persist", Err: err}
		}
	}
	return staged, nil
}

func (s *service) stage(ctx context.Context, req StageContentRequest) (*StagedContent, error) {
	item := req.Item
	id := uuid.New()

	title := item.Title
	if title == "" {
		title = defaultTitle
	}
	desc := itemDescription(item)

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = CandidatePlatforms(item)
	}

	mediaURLs, err := s.resolveMedia(ctx, item)
	if err != nil {
		return nil, &StageError{ContentID: id, Op: "resolve_media", Err: err}
	}

	selected := make([]Platform, 0, len(platforms))
	contents := make(map[Platform]PlatformContent, len(platforms))
	var rejected *ValidationError

	for _, platform := range platforms {
		limits, err := LimitsFor(platform)
		if err != nil {
			return nil, &StageError{ContentID: id, Platform: platform, Op: "limits", Err: err}
		}

		if verr := validateDuration(item, platform, limits); verr != nil {
			// Platform constraint violation drops the platform from the
			// set, not the item, unless no platform survives.
			if rejected == nil {
				rejected = verr
			}
			continue
		}

		pc, err := s.platformContent(ctx, req.UserID, item, platform, limits, title, desc, req.Context)
		if err != nil {
			return nil, &StageError{ContentID: id, Platform: platform, Op: "generate", Err: err}
		}
		contents[platform] = pc
		selected = append(selected, platform)
	}

	if len(selected) == 0 {
		if rejected != nil {
			return nil, rejected
		}
		return nil, &StageError{ContentID: id, Op: "stage", Err: ErrNoPlatforms}
	}

	return &StagedContent{
		ID:              id,
		Type:            item.Type,
		Title:           title,
		OriginalData:    req.Original,
		Platforms:       selected,
		PlatformContent: contents,
		MediaURLs:       mediaURLs,
		ThumbnailURL:    item.ThumbnailURL,
		Duration:        item.Duration,
		EstimatedReach:  estimateReach(item.Type, selected),
		CreatedAt:       s.now().UTC(),
	}, nil
}

func (s *service) StageBatch(ctx context.Context, req StageBatchRequest) (*StageBatchResult, error) {
	result := &StageBatchResult{
		Staged: make([]*StagedContent, len(req.Items)),
		Errors: make([]error, len(req.Items)),
	}

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, item := range req.Items {
		wg.Add(1)
		go func(i int, item RawContentItem) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				result.Errors[i] = ctx.Err()
				return
			}

			staged, err := s.StageContent(ctx, StageContentRequest{
				UserID:  req.UserID,
				Item:    item,
				Context: req.Context,
			})
			if err != nil {
				result.Errors[i] = err
				return
			}
			result.Staged[i] = staged
		}(i, item)
	}
	wg.Wait()

	return result, nil
}

func (s *service) RegeneratePlatformContent(ctx context.Context, req RegenerateRequest) (*StagedContent, error) {
	if req.Content == nil {
		return nil, fmt.Errorf("content is required")
	}
	if _, ok := req.Content.PlatformContent[req.Platform]; !ok {
		return nil, &StageError{ContentID: req.Content.ID, Platform: req.Platform, Op: "regenerate", Err: ErrPlatformNotFound}
	}

	limits, err := LimitsFor(req.Platform)
	if err != nil {
		return nil, &StageError{ContentID: req.Content.ID, Platform: req.Platform, Op: "regenerate", Err: err}
	}

	item := req.Item
	if item.Type == "" {
		item.Type = req.Content.Type
	}
	title := item.Title
	if title == "" {
		title = req.Content.Title
	}

	pc, err := s.platformContent(ctx, req.UserID, item, req.Platform, limits, title, itemDescription(item), req.Context)
	if err != nil {
		return nil, &StageError{ContentID: req.Content.ID, Platform: req.Platform, Op: "regenerate", Err: err}
	}

	// StagedContent is immutable: replacing one platform key produces a new
	// record sharing everything else.
	updated := *req.Content
	updated.PlatformContent = make(map[Platform]PlatformContent, len(req.Content.PlatformContent))
	for p, existing := range req.Content.PlatformContent {
		updated.PlatformContent[p] = existing
	}
	updated.PlatformContent[req.Platform] = pc

	if s.repo != nil {
		if err := s.repo.SaveStagedContent(ctx, &updated); err != nil {
			return nil, &StageError{ContentID: updated.ID, Op: "persist", Err: err}
		}
	}
	return &updated, nil
}

// platformContent runs the generation chain for one platform and validates
// the result against the platform limits. Generation errors reaching here
// are non-recoverable by definition (the chain already absorbed the
// degradable classes), most commonly context cancellation.
func (s *service) platformContent(ctx context.Context, userID string, item RawContentItem, platform Platform, limits PlatformLimits, title, desc, projectContext string) (PlatformContent, error) {
	result, err := s.generator.GenerateCaption(ctx, CaptionRequest{
		UserID:      userID,
		ContentType: item.Type,
		Platform:    platform,
		Title:       title,
		Description: desc,
		Context:     projectContext,
		Guidance:    GuidanceFor(platform),
	})
	if err != nil {
		return PlatformContent{}, err
	}

	pc := finalizePlatformContent(limits, result)
	switch item.Type {
	case ContentTypeImage, ContentTypeCarousel:
		pc.AltText = title
	case ContentTypeBlog:
		pc.Link = item.Link
	}
	return pc, nil
}

func (s *service) resolveMedia(ctx context.Context, item RawContentItem) ([]string, error) {
	if len(item.MediaKeys) == 0 {
		return item.MediaURLs, nil
	}
	if s.media == nil {
		return item.MediaURLs, nil
	}

	urls := make([]string, 0, len(item.MediaURLs)+len(item.MediaKeys))
	urls = append(urls, item.MediaURLs...)
	for _, key := range item.MediaKeys {
		url, err := s.media.ResolveURL(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("resolve media key %q: %w", key, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// itemDescription picks the best descriptive text a raw item carries.
func itemDescription(item RawContentItem) string {
	if item.Description != "" {
		return item.Description
	}
	if item.Excerpt != "" {
		return item.Excerpt
	}
	if item.Transcript != "" {
		return truncateRunes(item.Transcript, 200)
	}
	return ""
}

// estimateReach is a coarse deterministic audience estimate used as the
// analytics placeholder on staged records.
func estimateReach(ct ContentType, platforms []Platform) int {
	base := map[Platform]int{
		PlatformInstagram: 1200,
		PlatformTikTok:    1500,
		PlatformYouTube:   900,
		PlatformFacebook:  800,
		PlatformLinkedIn:  600,
		PlatformX:         500,
		PlatformThreads:   400,
	}
	multiplier := map[ContentType]float64{
		ContentTypeClip:     1.3,
		ContentTypeCarousel: 1.2,
		ContentTypeImage:    1.0,
		ContentTypeBlog:     0.8,
		ContentTypeDraft:    0.7,
	}

	total := 0
	for _, p := range platforms {
		total += base[p]
	}
	m, ok := multiplier[ct]
	if !ok {
		m = 1.0
	}
	return int(float64(total) * m)
}
