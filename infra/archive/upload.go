package archive

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/CrestNiraj12/iav/domain"
)

// archiveField is the multipart field the server reads the zip from.
const archiveField = "archiveFile"

// maxArchiveResponse bounds the JSON reply to an upload.
const maxArchiveResponse = 1 << 20

// uploadService implements app.UploadService.
type uploadService struct {
	client *Client
}

// NewUploadService creates an UploadService backed by the archive API.
func NewUploadService(client *Client) *uploadService {
	return &uploadService{client: client}
}

func (s *uploadService) UploadArchive(ctx context.Context, token, path string) (string, error) {
	if token == "" {
		return "", domain.ErrNoCredential
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return "", fmt.Errorf("reading archive: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return "", fmt.Errorf("archive %s is a directory", path)
	}

	// Stream the file so large archives never sit in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		part, err := mw.CreateFormFile(archiveField, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	data, _, err := s.client.do(ctx, http.MethodPost, "/api/v1/upload", token, mw.FormDataContentType(), pr, maxArchiveResponse)
	// Unblock the writer goroutine if the request ended before reading everything.
	pr.Close()
	if err != nil {
		return "", fmt.Errorf("uploading archive: %w", err)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := decodeJSON("upload", data, &resp); err != nil {
		return "", err
	}
	return sanitizeText(resp.Message), nil
}
