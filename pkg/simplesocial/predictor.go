package simplesocial

import (
	"fmt"
	"time"
)

// PredictEngagement is the pure scoring heuristic behind slot ranking. It
// maps (content, candidate timestamp, optional history) to a 0-100 score
// with a human-readable rationale, and performs no I/O: identical inputs
// always yield identical output.
//
// Scoring starts from a base of 70 (replaced by scaled historical
// engagement for the candidate hour when available), then applies
// hour-of-day, day-of-week, content-type and platform-affinity adjustments
// before clamping to [0,100].
func PredictEngagement(content *StagedContent, at time.Time, stats *HistoricalStats) EngagementPrediction {
	hour := at.Hour()
	day := at.Weekday()

	score := 70.0
	if stats != nil {
		if rate, ok := stats.HourlyEngagement[hour]; ok {
			score = clamp(rate*100, 0, 100)
		}
	}

	switch {
	case hour >= 8 && hour <= 10:
		score += 10
	case hour >= 17 && hour <= 19:
		score += 15
	case hour >= 20 && hour <= 22:
		score += 5
	case hour < 6 || hour >= 23:
		score -= 25
	}

	if stats != nil && containsWeekday(stats.BestDays, day) {
		score += 10
	}
	if day == time.Saturday || day == time.Sunday {
		score -= 15
	}

	switch content.Type {
	case ContentTypeClip:
		score += 15
	case ContentTypeCarousel:
		score += 20
	case ContentTypeImage:
		score += 10
	case ContentTypeBlog:
		score += 5
	}

	if hasPlatform(content.Platforms, PlatformInstagram) && hour >= 17 && hour <= 19 {
		score += 5
	}
	if hasPlatform(content.Platforms, PlatformLinkedIn) && day != time.Saturday && day != time.Sunday {
		score += 5
	}

	final := int(clamp(score, 0, 100))
	return EngagementPrediction{
		Score:     final,
		BestTime:  final >= 85,
		Reasoning: reasoning(final, hour, day, content.Type),
	}
}

// PredictEngagement on the service delegates to the package function; it is
// exposed on the interface so callers holding a Service need no extra
// import surface.
func (s *service) PredictEngagement(content *StagedContent, at time.Time, stats *HistoricalStats) EngagementPrediction {
	return PredictEngagement(content, at, stats)
}

func reasoning(score, hour int, day time.Weekday, ct ContentType) string {
	var bracket string
	switch {
	case score >= 85:
		bracket = "Excellent"
	case score >= 70:
		bracket = "Good"
	case score >= 50:
		bracket = "Average"
	default:
		bracket = "Low"
	}

	kind := string(ct)
	if kind == "" {
		kind = "this"
	}
	return fmt.Sprintf("%s engagement expected for %s content on %s %s",
		bracket, kind, day, timeOfDay(hour))
}

func timeOfDay(hour int) string {
	switch {
	case hour < 6:
		return "early morning"
	case hour < 11:
		return "morning"
	case hour < 14:
		return "midday"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "late night"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func hasPlatform(platforms []Platform, platform Platform) bool {
	for _, p := range platforms {
		if p == platform {
			return true
		}
	}
	return false
}
