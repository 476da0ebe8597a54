package generator

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyCompletion is returned when the model answers without any text.
var ErrEmptyCompletion = errors.New("model returned empty content")

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// coverLine is the markdown image placed on top of every article.
func coverLine(coverURL string) string {
	return "![封面图片](" + coverURL + ")"
}

// withCover validates raw model output and puts the cover image first.
func withCover(raw, coverURL string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyCompletion
	}
	return coverLine(coverURL) + "\n\n" + raw, nil
}

func extractTitle(md string) string {
	if m := titleRe.FindStringSubmatch(md); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
