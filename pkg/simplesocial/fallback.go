package simplesocial

import (
	"context"
	"fmt"
	"strings"
)

// defaultTitle replaces an empty title so templates never render blanks.
const defaultTitle = "Amazing Content"

// fallbackGenerator is the deterministic caption source used when the
// generation collaborator is unavailable. It never returns an error; this is
// the guaranteed degraded mode of the staging pipeline.
type fallbackGenerator struct{}

// NewFallbackGenerator returns the deterministic template-based caption
// generator. It is always safe to use as the terminal generator in a chain.
func NewFallbackGenerator() CaptionGenerator {
	return fallbackGenerator{}
}

// captionTemplates maps content-type family -> platform -> template. The
// template receives the (placeholder-substituted) title and description.
var captionTemplates = map[ContentType]map[Platform]string{
	ContentTypeClip: {
		PlatformInstagram: "%s 🎬 Watch till the end! %s",
		PlatformTikTok:    "%s 👀 %s",
		PlatformYouTube:   "%s\n\n%s\n\nNew video out now — like and subscribe for more.",
		PlatformFacebook:  "New video: %s\n\n%s\n\nWhat do you think? Let us know in the comments.",
		PlatformLinkedIn:  "%s\n\n%s\n\nFull video now live.",
		PlatformX:         "New video: %s %s",
		PlatformThreads:   "%s — new clip is up. %s",
	},
	ContentTypeBlog: {
		PlatformLinkedIn:  "New on the blog: %s\n\n%s\n\nRead the full post — link in comments.",
		PlatformX:         "New post: %s %s",
		PlatformFacebook:  "Fresh from the blog: %s\n\n%s",
		PlatformThreads:   "Just published: %s. %s",
		PlatformInstagram: "New blog post: %s ✍️ %s",
	},
	ContentTypeImage: {
		PlatformInstagram: "%s 📸 %s",
		PlatformFacebook:  "%s\n\n%s",
		PlatformLinkedIn:  "%s\n\n%s",
		PlatformThreads:   "%s %s",
	},
	ContentTypeCarousel: {
		PlatformInstagram: "%s ➡️ Swipe through! %s",
		PlatformFacebook:  "%s\n\n%s\n\nSwipe through the gallery.",
		PlatformLinkedIn:  "%s\n\n%s\n\nSwipe for the full breakdown.",
		PlatformThreads:   "%s — full set in the post. %s",
	},
}

// fallbackHashtags maps content-type family -> deterministic base tag set.
var fallbackHashtags = map[ContentType][]string{
	ContentTypeClip:     {"video", "reels", "shorts", "videocontent"},
	ContentTypeBlog:     {"blog", "article", "reading", "content"},
	ContentTypeImage:    {"photography", "visual", "photooftheday"},
	ContentTypeCarousel: {"carousel", "swipe", "gallery", "slides"},
}

// platformHashtags are appended to the content-type base set per platform.
var platformHashtags = map[Platform][]string{
	PlatformInstagram: {"instagood", "explore"},
	PlatformTikTok:    {"fyp", "foryou"},
	PlatformYouTube:   {"youtube", "subscribe"},
	PlatformFacebook:  {"facebook"},
	PlatformLinkedIn:  {"career", "professional"},
	PlatformX:         {"news"},
	PlatformThreads:   {"threads"},
}

// templateFamily maps any content type onto a template family. Drafts and
// unknown types render with the clip templates.
func templateFamily(ct ContentType) ContentType {
	switch ct {
	case ContentTypeBlog, ContentTypeImage, ContentTypeCarousel:
		return ct
	default:
		return ContentTypeClip
	}
}

func (fallbackGenerator) GenerateCaption(_ context.Context, req CaptionRequest) (*CaptionResult, error) {
	title := req.Title
	if title == "" {
		title = defaultTitle
	}

	family := templateFamily(req.ContentType)
	tmpl, ok := captionTemplates[family][req.Platform]
	if !ok {
		tmpl = "%s %s"
	}

	tags := make([]string, 0, 8)
	tags = append(tags, fallbackHashtags[family]...)
	tags = append(tags, platformHashtags[req.Platform]...)

	return &CaptionResult{
		Caption:  strings.TrimSpace(fmt.Sprintf(tmpl, title, req.Description)),
		Hashtags: tags,
	}, nil
}
