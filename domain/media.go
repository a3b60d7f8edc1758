package domain

import (
	"path"
	"strings"
	"time"
)

// MediaType tags an archived item as a feed post or a story.
type MediaType string

const (
	MediaPost  MediaType = "post"
	MediaStory MediaType = "story"
)

// MediaRecord is one archived photo or video as listed by the API.
// Records are never mutated after decoding.
type MediaRecord struct {
	ID         int
	UserID     int
	URI        string // Storage locator, relative to the mediafile endpoint
	Caption    string
	TakenAt    time.Time // Zero when TakenAtRaw did not parse
	TakenAtRaw string
	Type       MediaType
}

// ContentKind classifies fetched bytes for display.
type ContentKind int

const (
	KindImage ContentKind = iota
	KindVideo
)

func (k ContentKind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

var videoExtensions = map[string]string{
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"webm": "video/webm",
}

// ClassifyLocator derives the content kind from the locator's file extension.
// The MIME hint is only set for video; images are sniffed from their bytes.
func ClassifyLocator(locator string) (ContentKind, string) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(locator), "."))
	if mime, ok := videoExtensions[ext]; ok {
		return KindVideo, mime
	}
	return KindImage, ""
}
