package simplesocial

// platformLimits is the process-wide limits table. Loaded once, never
// mutated; every limit lookup anywhere in the library goes through
// LimitsFor.
var platformLimits = map[Platform]PlatformLimits{
	PlatformInstagram: {
		CaptionLength: 2200,
		HashtagLimit:  30,
		MinDuration:   3,
		MaxDuration:   5400,
		OptimalHours:  []int{11, 13, 17, 19},
	},
	PlatformTikTok: {
		CaptionLength: 2200,
		HashtagLimit:  20,
		MinDuration:   3,
		MaxDuration:   600,
		OptimalHours:  []int{9, 12, 19, 21},
	},
	PlatformYouTube: {
		CaptionLength: 5000,
		HashtagLimit:  15,
		MinDuration:   1,
		MaxDuration:   43200,
		OptimalHours:  []int{14, 17, 20},
	},
	PlatformFacebook: {
		CaptionLength: 63206,
		HashtagLimit:  30,
		OptimalHours:  []int{9, 13, 15},
	},
	PlatformLinkedIn: {
		CaptionLength: 3000,
		HashtagLimit:  10,
		OptimalHours:  []int{8, 10, 12, 17},
	},
	PlatformX: {
		CaptionLength: 280,
		HashtagLimit:  5,
		OptimalHours:  []int{8, 12, 17, 21},
	},
	PlatformThreads: {
		CaptionLength: 500,
		HashtagLimit:  10,
		OptimalHours:  []int{10, 13, 19},
	},
}

// platformGuidance holds the short tone/format hint passed to the caption
// generator for each platform.
var platformGuidance = map[Platform]string{
	PlatformInstagram: "Visual-first, friendly tone. Lead with a hook line, keep paragraphs short, close with a question or CTA. Hashtags carry discovery.",
	PlatformTikTok:    "Casual and punchy. Short caption, trend-aware wording, strong hook in the first few words.",
	PlatformYouTube:   "Descriptive and searchable. Front-load keywords, summarize the video value, include chapters-style detail where useful.",
	PlatformFacebook:  "Conversational storytelling. Medium length, invite comments and shares, avoid hashtag walls.",
	PlatformLinkedIn:  "Professional and insight-led. Open with a takeaway, use line breaks for readability, minimal hashtags.",
	PlatformX:         "Concise and witty. One clear idea, leave room for the link, at most a couple of hashtags.",
	PlatformThreads:   "Conversational and low-key. Short text-first posts, reply-bait endings work well.",
}

// LimitsFor returns the limits entry for a platform. An unknown platform is
// a hard error: it means the caller references a platform the system does
// not model.
func LimitsFor(platform Platform) (PlatformLimits, error) {
	limits, ok := platformLimits[platform]
	if !ok {
		return PlatformLimits{}, ErrPlatformNotFound
	}
	return limits, nil
}

// GuidanceFor returns the best-practice hint for a platform, or an empty
// string for platforms without one.
func GuidanceFor(platform Platform) string {
	return platformGuidance[platform]
}

// Platforms returns all modeled platforms in a stable order.
func Platforms() []Platform {
	return []Platform{
		PlatformInstagram,
		PlatformTikTok,
		PlatformYouTube,
		PlatformFacebook,
		PlatformLinkedIn,
		PlatformX,
		PlatformThreads,
	}
}
