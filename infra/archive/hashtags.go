package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CrestNiraj12/iav/domain"
)

// hashtagService implements app.HashtagService.
type hashtagService struct {
	client *Client
}

// NewHashtagService creates a HashtagService backed by the archive API.
func NewHashtagService(client *Client) *hashtagService {
	return &hashtagService{client: client}
}

type hashtagItem struct {
	ID        *int            `json:"id"`
	Name      *string         `json:"name"`
	Timestamp json.RawMessage `json:"timestamp"`
}

func (s *hashtagService) ListHashtags(ctx context.Context, token string) ([]domain.Hashtag, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	data, _, err := s.client.get(ctx, "/api/v1/hashtags", token, maxJSONBytes)
	if err != nil {
		return nil, fmt.Errorf("fetching hashtags: %w", err)
	}

	var items []hashtagItem
	if err := decodeJSON("hashtags", data, &items); err != nil {
		return nil, err
	}

	out := make([]domain.Hashtag, 0, len(items))
	for i, it := range items {
		if it.ID == nil || it.Name == nil {
			return nil, schemaError("hashtags", fmt.Sprintf("item %d missing id or name", i))
		}
		ts, raw := parseTimestamp(it.Timestamp)
		out = append(out, domain.Hashtag{
			ID:           *it.ID,
			Name:         sanitizeText(*it.Name),
			Timestamp:    ts,
			TimestampRaw: raw,
		})
	}
	return out, nil
}
