package simplesocial

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// CandidatePlatforms selects the platform set for a raw item from its
// content type and, for clips, its duration. Drafts and unknown types take
// the clip rules.
func CandidatePlatforms(item RawContentItem) []Platform {
	switch item.Type {
	case ContentTypeBlog:
		return []Platform{PlatformLinkedIn, PlatformX, PlatformFacebook, PlatformThreads}
	case ContentTypeImage, ContentTypeCarousel:
		return []Platform{PlatformInstagram, PlatformFacebook, PlatformLinkedIn, PlatformThreads}
	default:
		switch {
		case item.Duration <= 60:
			return []Platform{PlatformInstagram, PlatformTikTok, PlatformYouTube}
		case item.Duration <= 180:
			return []Platform{PlatformYouTube, PlatformFacebook, PlatformInstagram}
		default:
			return []Platform{PlatformYouTube, PlatformFacebook}
		}
	}
}

// validateDuration checks a clip's duration against a platform's bounds.
// Non-clip content and unbounded platforms always pass.
func validateDuration(item RawContentItem, platform Platform, limits PlatformLimits) *ValidationError {
	if item.Type != ContentTypeClip || item.Duration <= 0 {
		return nil
	}
	if limits.MinDuration > 0 && item.Duration < limits.MinDuration {
		return &ValidationError{
			Platform: platform,
			Field:    "duration",
			Reason:   fmt.Sprintf("%ds is below the %ds minimum", item.Duration, limits.MinDuration),
		}
	}
	if limits.MaxDuration > 0 && item.Duration > limits.MaxDuration {
		return &ValidationError{
			Platform: platform,
			Field:    "duration",
			Reason:   fmt.Sprintf("%ds exceeds the %ds maximum", item.Duration, limits.MaxDuration),
		}
	}
	return nil
}

// normalizeHashtags strips '#' sigils, drops blanks, deduplicates
// case-insensitively keeping the first-seen display casing, and caps the
// list at max.
func normalizeHashtags(tags []string, max int) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// hashtagsLength is the rendered character cost of a tag list: each tag
// costs one '#', the tag runes, and one separating space.
func hashtagsLength(tags []string) int {
	n := 0
	for _, tag := range tags {
		n += 2 + utf8.RuneCountInString(tag)
	}
	return n
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// finalizePlatformContent applies the platform limits to a generation
// result: caps hashtags, truncates the caption so caption plus hashtags fit
// the caption limit (appending an ellipsis marker when it had to cut), and
// derives the character count and validity.
func finalizePlatformContent(limits PlatformLimits, result *CaptionResult) PlatformContent {
	tags := normalizeHashtags(result.Hashtags, limits.HashtagLimit)
	tagLen := hashtagsLength(tags)

	caption := result.Caption
	budget := limits.CaptionLength - tagLen
	if utf8.RuneCountInString(caption) > budget {
		if budget > len(ellipsis) {
			caption = truncateRunes(caption, budget-len(ellipsis)) + ellipsis
		} else {
			caption = truncateRunes(caption, budget)
		}
	}

	count := utf8.RuneCountInString(caption) + tagLen
	pc := PlatformContent{
		Caption:        caption,
		Hashtags:       tags,
		CTA:            result.CTA,
		CharacterCount: count,
	}
	if count > limits.CaptionLength {
		pc.ValidationErrors = append(pc.ValidationErrors,
			fmt.Sprintf("caption and hashtags exceed the %d character limit", limits.CaptionLength))
	}
	if len(tags) > limits.HashtagLimit {
		pc.ValidationErrors = append(pc.ValidationErrors,
			fmt.Sprintf("hashtag count exceeds the limit of %d", limits.HashtagLimit))
	}
	pc.IsValid = len(pc.ValidationErrors) == 0
	return pc
}
