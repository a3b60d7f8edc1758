package app

import (
	"context"

	"github.com/CrestNiraj12/iav/domain"
)

// MediaService lists archived media and fetches media bytes.
type MediaService interface {
	// ListMedia returns every media record of the session's archive.
	ListMedia(ctx context.Context, token string) ([]domain.MediaRecord, error)

	// FetchMediaFile returns the bytes and server content type for a storage locator.
	FetchMediaFile(ctx context.Context, token, uri string) ([]byte, string, error)
}

// ConnectionService lists followers, following, contacts and the other relations.
type ConnectionService interface {
	ListConnections(ctx context.Context, token string) ([]domain.Connection, error)
}

// HashtagService lists followed hashtags.
type HashtagService interface {
	ListHashtags(ctx context.Context, token string) ([]domain.Hashtag, error)
}

// UploadService sends an archive zip for server-side ingestion.
type UploadService interface {
	// UploadArchive returns the server's confirmation message.
	UploadArchive(ctx context.Context, token, path string) (string, error)
}
