package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/iav/domain"
)

// mediaService implements app.MediaService.
type mediaService struct {
	client *Client
}

// NewMediaService creates a MediaService backed by the archive API.
func NewMediaService(client *Client) *mediaService {
	return &mediaService{client: client}
}

// mediaItem is the wire shape of GET /api/v1/media.
type mediaItem struct {
	ID        *int            `json:"id"`
	UserID    int             `json:"user_id"`
	URI       *string         `json:"uri"`
	Caption   string          `json:"caption"`
	TakenAt   json.RawMessage `json:"taken_at"`
	MediaType *string         `json:"media_type"`
}

func (s *mediaService) ListMedia(ctx context.Context, token string) ([]domain.MediaRecord, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	data, _, err := s.client.get(ctx, "/api/v1/media", token, maxJSONBytes)
	if err != nil {
		return nil, fmt.Errorf("fetching media: %w", err)
	}

	var items []mediaItem
	if err := decodeJSON("media", data, &items); err != nil {
		return nil, err
	}
	return mapMediaItems(items)
}

func mapMediaItems(items []mediaItem) ([]domain.MediaRecord, error) {
	out := make([]domain.MediaRecord, 0, len(items))
	for i, it := range items {
		switch {
		case it.ID == nil:
			return nil, schemaError("media", fmt.Sprintf("item %d missing id", i))
		case it.URI == nil || strings.TrimSpace(*it.URI) == "":
			return nil, schemaError("media", fmt.Sprintf("item %d missing uri", i))
		case it.MediaType == nil:
			return nil, schemaError("media", fmt.Sprintf("item %d missing media_type", i))
		}
		takenAt, raw := parseTimestamp(it.TakenAt)
		out = append(out, domain.MediaRecord{
			ID:         *it.ID,
			UserID:     it.UserID,
			URI:        strings.TrimSpace(*it.URI),
			Caption:    sanitizeText(it.Caption),
			TakenAt:    takenAt,
			TakenAtRaw: raw,
			Type:       domain.MediaType(foldTag(*it.MediaType)),
		})
	}
	return out, nil
}

func (s *mediaService) FetchMediaFile(ctx context.Context, token, uri string) ([]byte, string, error) {
	if token == "" {
		return nil, "", domain.ErrNoCredential
	}
	path, err := mediaFilePath(uri)
	if err != nil {
		return nil, "", err
	}
	data, header, err := s.client.getMedia(ctx, path, token)
	if err != nil {
		return nil, "", fmt.Errorf("fetching media file: %w", err)
	}
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// mediaFilePath escapes each segment of the locator under /api/v1/mediafile/.
func mediaFilePath(uri string) (string, error) {
	uri = strings.Trim(strings.TrimSpace(uri), "/")
	if uri == "" {
		return "", fmt.Errorf("empty media locator")
	}
	segments := strings.Split(uri, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/api/v1/mediafile/" + strings.Join(segments, "/"), nil
}
