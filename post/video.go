package post

import (
	"regexp"
	"strings"
)

// ====== Video Link Rewriting ======

var videoGuideLink = regexp.MustCompile(`Video Guide:\s*\[(.*?)\]\((.*?)\)`)

const (
	videoGlyph        = "📹 "
	videoSearchSuffix = "+hospital+information+system"
	internalVideoPath = "internal_video_path"
)

// RewriteVideoLinks rewrites "Video Guide: [title](url)" references.
// YouTube links and external URLs keep their URL; internal video paths
// are replaced with a YouTube search for the title scoped to the
// hospital system. In every case the title gains the camera glyph,
// skipped when already present, so the rewrite is idempotent.
func RewriteVideoLinks(s string) string {
	return videoGuideLink.ReplaceAllStringFunc(s, func(match string) string {
		groups := videoGuideLink.FindStringSubmatch(match)
		title, url := groups[1], groups[2]
		if !strings.HasPrefix(title, videoGlyph) {
			title = videoGlyph + title
		}
		if strings.Contains(url, internalVideoPath) {
			query := strings.ReplaceAll(strings.TrimSpace(groups[1]), " ", "+") + videoSearchSuffix
			url = "https://www.youtube.com/results?search_query=" + query
		}
		return "Video Guide: [" + title + "](" + url + ")"
	})
}
