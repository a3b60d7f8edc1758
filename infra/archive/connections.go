package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CrestNiraj12/iav/domain"
)

// connectionService implements app.ConnectionService.
type connectionService struct {
	client *Client
}

// NewConnectionService creates a ConnectionService backed by the archive API.
func NewConnectionService(client *Client) *connectionService {
	return &connectionService{client: client}
}

// connectionItem is the wire shape of GET /api/v1/connections. The server
// sends ID, Username and Timestamp untagged; encoding/json matches keys
// case-insensitively, so lower-case variants decode too.
type connectionItem struct {
	ID             *int            `json:"ID"`
	Username       string          `json:"Username"`
	ConnectionType *string         `json:"connection_type"`
	Timestamp      json.RawMessage `json:"Timestamp"`
	ContactInfo    *string         `json:"contact_info"`
}

func (s *connectionService) ListConnections(ctx context.Context, token string) ([]domain.Connection, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	data, _, err := s.client.get(ctx, "/api/v1/connections", token, maxJSONBytes)
	if err != nil {
		return nil, fmt.Errorf("fetching connections: %w", err)
	}

	var items []connectionItem
	if err := decodeJSON("connections", data, &items); err != nil {
		return nil, err
	}

	out := make([]domain.Connection, 0, len(items))
	for i, it := range items {
		if it.ID == nil {
			return nil, schemaError("connections", fmt.Sprintf("item %d missing ID", i))
		}
		if it.ConnectionType == nil {
			return nil, schemaError("connections", fmt.Sprintf("item %d missing connection_type", i))
		}
		ts, raw := parseTimestamp(it.Timestamp)
		contact := ""
		if it.ContactInfo != nil {
			contact = sanitizeText(*it.ContactInfo)
		}
		out = append(out, domain.Connection{
			ID:           *it.ID,
			Username:     sanitizeText(it.Username),
			Type:         foldTag(*it.ConnectionType),
			Timestamp:    ts,
			TimestampRaw: raw,
			ContactInfo:  contact,
		})
	}
	return out, nil
}
