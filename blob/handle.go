// Package blob loads media bytes with the session credential and manages the
// local handles that hold them. A handle is a uuid-named temp file owned by
// exactly one Loader; it is revoked (deleted) exactly once.
package blob

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/domain"
)

var (
	// ErrAlreadyRevoked is returned by a second revoke of the same handle.
	ErrAlreadyRevoked = errors.New("handle already revoked")

	// ErrPoolClosed is returned when creating handles after Close.
	ErrPoolClosed = errors.New("handle pool closed")
)

// Handle is a local, revocable reference to fetched media bytes.
type Handle struct {
	id      uuid.UUID
	locator string
	path    string
	kind    domain.ContentKind
	mime    string
	size    int64

	pool    *Pool
	once    sync.Once
	revoked atomic.Bool
}

func (h *Handle) ID() uuid.UUID            { return h.id }
func (h *Handle) Locator() string          { return h.locator }
func (h *Handle) Path() string             { return h.path }
func (h *Handle) Kind() domain.ContentKind { return h.kind }
func (h *Handle) MIME() string             { return h.mime }
func (h *Handle) Size() int64              { return h.size }
func (h *Handle) Revoked() bool            { return h.revoked.Load() }

// Bytes reads the handle's content back.
func (h *Handle) Bytes() ([]byte, error) {
	if h.Revoked() {
		return nil, ErrAlreadyRevoked
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("reading handle %s: %w", h.id, err)
	}
	return data, nil
}

// revoke deletes the backing file. Only the owning Loader or the Pool calls it.
func (h *Handle) revoke() error {
	err := ErrAlreadyRevoked
	h.once.Do(func() {
		h.revoked.Store(true)
		err = nil
		if rmErr := os.Remove(h.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = fmt.Errorf("removing handle %s: %w", h.id, rmErr)
		}
		h.pool.release(h)
	})
	return err
}

// Pool creates handles in a private directory and tracks the live ones.
type Pool struct {
	dir string
	log *zap.Logger

	mu     sync.Mutex
	live   map[uuid.UUID]*Handle
	closed bool
}

// NewPool creates a handle directory under parent.
func NewPool(parent string, log *zap.Logger) (*Pool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(parent, 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	dir, err := os.MkdirTemp(parent, domain.AppName+"-media-*")
	if err != nil {
		return nil, fmt.Errorf("creating handle directory: %w", err)
	}
	return &Pool{dir: dir, log: log, live: make(map[uuid.UUID]*Handle)}, nil
}

// Dir returns the directory holding live handles.
func (p *Pool) Dir() string { return p.dir }

// Create writes data to a new handle for locator. contentType is the server's
// header; images fall back to sniffing when it is not an image type.
func (p *Pool) Create(locator string, data []byte, contentType string) (*Handle, error) {
	kind, mime := domain.ClassifyLocator(locator)
	if kind == domain.KindImage {
		mime = imageMIME(data, contentType)
	}

	id := uuid.New()
	name := id.String() + strings.ToLower(path.Ext(locator))
	h := &Handle{
		id:      id,
		locator: locator,
		path:    filepath.Join(p.dir, name),
		kind:    kind,
		mime:    mime,
		size:    int64(len(data)),
		pool:    p,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}
	if err := os.WriteFile(h.path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing handle for %s: %w", locator, err)
	}
	p.live[id] = h
	return h, nil
}

// Live returns the number of handles not yet revoked.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Close revokes every live handle and removes the directory.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	handles := make([]*Handle, 0, len(p.live))
	for _, h := range p.live {
		handles = append(handles, h)
	}
	p.mu.Unlock()

	var err error
	for _, h := range handles {
		if rerr := h.revoke(); rerr != nil && !errors.Is(rerr, ErrAlreadyRevoked) {
			err = multierr.Append(err, rerr)
		}
	}
	if len(handles) > 0 {
		p.log.Debug("revoked handles on close", zap.Int("count", len(handles)))
	}
	return multierr.Append(err, os.RemoveAll(p.dir))
}

func (p *Pool) release(h *Handle) {
	p.mu.Lock()
	delete(p.live, h.id)
	p.mu.Unlock()
}

func imageMIME(data []byte, contentType string) string {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return strings.SplitN(http.DetectContentType(data), ";", 2)[0]
}
