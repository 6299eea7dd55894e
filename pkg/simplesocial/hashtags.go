package simplesocial

import (
	"strconv"
	"time"
)

// maxSuggestedHashtags caps the merged suggestion list.
const maxSuggestedHashtags = 15

// dayTrendTags is the day-of-week trend tag table.
var dayTrendTags = map[time.Weekday]string{
	time.Monday:    "MondayMotivation",
	time.Tuesday:   "TuesdayTips",
	time.Wednesday: "WednesdayWisdom",
	time.Thursday:  "ThrowbackThursday",
	time.Friday:    "FridayFeeling",
	time.Saturday:  "SaturdayVibes",
	time.Sunday:    "SundayFunday",
}

// SuggestHashtags merges the hashtags already staged per platform with
// day-of-week trend tags, static trend tags, and the content-type base set.
// The result is deduplicated case-insensitively and capped at 15; the merge
// order is the only ranking.
func SuggestHashtags(content *StagedContent, at time.Time) []string {
	merged := make([]string, 0, maxSuggestedHashtags*2)

	for _, platform := range content.Platforms {
		if pc, ok := content.PlatformContent[platform]; ok {
			merged = append(merged, pc.Hashtags...)
		}
	}

	merged = append(merged,
		dayTrendTags[at.Weekday()],
		"Trending",
		"Viral",
		strconv.Itoa(at.Year()),
	)

	merged = append(merged, fallbackHashtags[templateFamily(content.Type)]...)

	return normalizeHashtags(merged, maxSuggestedHashtags)
}

func (s *service) SuggestHashtags(content *StagedContent, at time.Time) []string {
	return SuggestHashtags(content, at)
}
