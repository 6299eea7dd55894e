package simplesocial

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// collisionStep is the fixed forward shift applied until a claimed
// minute-resolution timestamp frees up. Shifts never re-rank.
const collisionStep = 30 * time.Minute

const preferredSlotScore = 90

// fallbackSlots is the static slot table used when no advisor is configured
// or the advisory call fails.
func fallbackSlots() []TimeSlot {
	return []TimeSlot{
		{Hour: 8, Minute: 30, Reason: "Morning commute scroll", Score: 75},
		{Hour: 9, Minute: 15, Reason: "Start-of-day check-in", Score: 72},
		{Hour: 12, Minute: 0, Reason: "Lunchtime break", Score: 80},
		{Hour: 14, Minute: 0, Reason: "Afternoon lull", Score: 68},
		{Hour: 17, Minute: 30, Reason: "Evening commute peak", Score: 88},
		{Hour: 19, Minute: 0, Reason: "Prime evening window", Score: 85},
		{Hour: 20, Minute: 0, Reason: "Post-dinner browsing", Score: 78},
		{Hour: 22, Minute: 0, Reason: "Late-night scroll", Score: 65},
	}
}

func (s *service) ScheduleContent(ctx context.Context, req ScheduleContentRequest) (*ScheduleResult, error) {
	if len(req.Items) == 0 {
		return nil, &ScheduleError{Op: "schedule", Err: ErrNoItems}
	}

	prefs, err := s.normalizePreferences(req.Preferences)
	if err != nil {
		return nil, &ScheduleError{Op: "preferences", Err: err}
	}

	slots := s.candidateSlots(ctx, req, prefs)
	state := newScheduleState(prefs, s.rng)

	result := &ScheduleResult{
		Scheduled: make([]*ScheduledContent, 0, len(req.Items)),
	}
	for i, item := range req.Items {
		ts, reason, ok := state.step(slots)
		if !ok {
			// Window exhausted: the remainder comes back unscheduled, in
			// input order, as a partial-success signal.
			result.Unscheduled = append(result.Unscheduled, req.Items[i:]...)
			break
		}

		result.Scheduled = append(result.Scheduled, &ScheduledContent{
			ID:                 uuid.New(),
			Content:            item,
			ScheduledAt:        ts,
			Platforms:          item.Platforms,
			Prediction:         PredictEngagement(item, ts, req.Stats),
			OptimizationReason: reason,
			SuggestedHashtags:  SuggestHashtags(item, ts),
			CreatedAt:          s.now().UTC(),
		})
	}

	if s.repo != nil {
		for _, sc := range result.Scheduled {
			if err := s.repo.SaveScheduledContent(ctx, sc); err != nil {
				return nil, &ScheduleError{Op: "persist", Err: err}
			}
		}
	}
	return result, nil
}

// normalizedPrefs is a SchedulePreferences with defaults applied and the
// timezone and preferred-time hints resolved.
type normalizedPrefs struct {
	loc         *time.Location
	timezone    string
	start       time.Time
	end         time.Time
	postsPerDay int
	avoidWknd   bool
	preferred   []TimeSlot
}

func (s *service) normalizePreferences(prefs SchedulePreferences) (normalizedPrefs, error) {
	np := normalizedPrefs{
		timezone:    prefs.Timezone,
		postsPerDay: prefs.PostsPerDay,
		avoidWknd:   prefs.AvoidWeekends || s.defaults.AvoidWeekends,
	}

	np.loc = time.UTC
	if prefs.Timezone != "" {
		loc, err := time.LoadLocation(prefs.Timezone)
		if err != nil {
			return np, fmt.Errorf("%w: unknown timezone %q", ErrInvalidPreferences, prefs.Timezone)
		}
		np.loc = loc
	}

	if np.postsPerDay == 0 {
		np.postsPerDay = s.defaults.PostsPerDay
	}
	if np.postsPerDay < 1 {
		return np, fmt.Errorf("%w: posts per day must be positive", ErrInvalidPreferences)
	}

	np.start = s.now().In(np.loc)
	if prefs.StartDate != nil {
		np.start = prefs.StartDate.In(np.loc)
	}
	np.end = np.start.AddDate(0, 0, s.defaults.WindowDays)
	if prefs.EndDate != nil {
		np.end = prefs.EndDate.In(np.loc)
	}
	if np.end.Before(np.start) {
		return np, fmt.Errorf("%w: end date precedes start date", ErrInvalidPreferences)
	}

	for _, raw := range prefs.PreferredTimes {
		slot, err := parsePreferredTime(raw)
		if err != nil {
			return np, err
		}
		np.preferred = append(np.preferred, slot)
	}
	return np, nil
}

func parsePreferredTime(raw string) (TimeSlot, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%w: preferred time %q is not HH:MM", ErrInvalidPreferences, raw)
	}
	return TimeSlot{
		Hour:   parsed.Hour(),
		Minute: parsed.Minute(),
		Reason: "Preferred posting time",
		Score:  preferredSlotScore,
	}, nil
}

// candidateSlots assembles the ranked daily slot list: advisor output when
// available (static table on failure), preferred-time hints merged in, the
// whole list stably sorted by score so ties keep their list order.
func (s *service) candidateSlots(ctx context.Context, req ScheduleContentRequest, prefs normalizedPrefs) []TimeSlot {
	var slots []TimeSlot
	if s.advisor != nil {
		suggested, err := s.advisor.SuggestSlots(ctx, AdvisoryRequest{
			ItemCount:    len(req.Items),
			ContentTypes: distinctTypes(req.Items),
			Platforms:    distinctPlatforms(req.Items),
			Timezone:     prefs.timezone,
		})
		if err != nil {
			s.logger.Warn("optimal-time advisory failed, using static slot table", "err", err)
		} else {
			slots = validSlots(suggested)
			if len(slots) == 0 {
				s.logger.Warn("optimal-time advisory returned no usable slots, using static slot table")
			}
		}
	}
	if len(slots) == 0 {
		slots = fallbackSlots()
	}

	merged := make([]TimeSlot, 0, len(prefs.preferred)+len(slots))
	merged = append(merged, prefs.preferred...)
	merged = append(merged, slots...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// validSlots drops advisory entries outside clock bounds; a malformed
// advisory response is treated the same as an unavailable advisor.
func validSlots(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Hour < 0 || slot.Hour > 23 || slot.Minute < 0 || slot.Minute > 59 {
			continue
		}
		out = append(out, slot)
	}
	return out
}

func distinctTypes(items []*StagedContent) []ContentType {
	seen := make(map[ContentType]struct{}, len(items))
	out := make([]ContentType, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Type]; ok {
			continue
		}
		seen[item.Type] = struct{}{}
		out = append(out, item.Type)
	}
	return out
}

func distinctPlatforms(items []*StagedContent) []Platform {
	seen := make(map[Platform]struct{})
	out := make([]Platform, 0, 4)
	for _, item := range items {
		for _, p := range item.Platforms {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// slotKey identifies a claimed timestamp at minute resolution.
type slotKey struct {
	year   int
	month  time.Month
	day    int
	hour   int
	minute int
}

func keyFor(t time.Time) slotKey {
	return slotKey{t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()}
}

// scheduleState is the bookkeeping threaded through one scheduling walk:
// the day cursor, the per-day post count and slot usage, and the claimed
// minute-resolution timestamps. A fresh ScheduleContent call always starts
// from a clean state.
type scheduleState struct {
	day         time.Time // midnight in the run's location
	end         time.Time
	postsPerDay int
	avoidWknd   bool
	dailyCount  int
	usedSlots   map[int]struct{}
	claimed     map[slotKey]struct{}
	rng         *rand.Rand
}

func newScheduleState(prefs normalizedPrefs, rng *rand.Rand) *scheduleState {
	start := prefs.start
	return &scheduleState{
		day:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, prefs.loc),
		end:         prefs.end,
		postsPerDay: prefs.postsPerDay,
		avoidWknd:   prefs.avoidWknd,
		usedSlots:   make(map[int]struct{}),
		claimed:     make(map[slotKey]struct{}),
		rng:         rng,
	}
}

// step places one item: it advances the day cursor past weekends and
// exhausted days, picks the highest-scoring unused slot (or synthesizes
// one), shifts forward in 30-minute steps past claimed timestamps, and
// claims the result. The second return is the slot's optimization reason;
// ok is false once the window is exhausted.
func (st *scheduleState) step(slots []TimeSlot) (time.Time, string, bool) {
	for {
		if st.day.After(st.end) {
			return time.Time{}, "", false
		}
		if st.avoidWknd && isWeekend(st.day) {
			st.advanceDay()
			continue
		}
		if st.dailyCount >= st.postsPerDay {
			st.advanceDay()
			continue
		}
		break
	}

	slot, ok := st.pickSlot(slots)
	if !ok {
		slot = st.fallbackSlot()
	}

	ts := time.Date(st.day.Year(), st.day.Month(), st.day.Day(), slot.Hour, slot.Minute, 0, 0, st.day.Location())
	for {
		if _, taken := st.claimed[keyFor(ts)]; !taken {
			break
		}
		ts = ts.Add(collisionStep)
	}
	st.claimed[keyFor(ts)] = struct{}{}
	st.dailyCount++
	return ts, slot.Reason, true
}

// pickSlot returns the highest-scoring slot not yet used on the current
// day. The list is pre-sorted, so the first unused index wins.
func (st *scheduleState) pickSlot(slots []TimeSlot) (TimeSlot, bool) {
	for i, slot := range slots {
		if _, used := st.usedSlots[i]; used {
			continue
		}
		st.usedSlots[i] = struct{}{}
		return slot, true
	}
	return TimeSlot{}, false
}

// fallbackSlot synthesizes a slot when the ranked list is exhausted for the
// day: a pseudo-random hour in [10,19] on the hour or half hour.
func (st *scheduleState) fallbackSlot() TimeSlot {
	return TimeSlot{
		Hour:   10 + st.rng.Intn(10),
		Minute: st.rng.Intn(2) * 30,
		Reason: "Alternative time slot",
		Score:  70,
	}
}

func (st *scheduleState) advanceDay() {
	st.day = st.day.AddDate(0, 0, 1)
	st.dailyCount = 0
	st.usedSlots = make(map[int]struct{})
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
