package avatar

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists a generated image and returns the public URL it will be
// served from.
type Store interface {
	Save(ctx context.Context, personaID, src string) (string, error)
}

// FileStore writes avatars into a directory served by the HTTP layer under
// /avatars/.
type FileStore struct {
	Dir    string
	Client *http.Client
}

// NewFileStore creates a file-backed avatar store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &FileStore{
		Dir:    dir,
		Client: &http.Client{Timeout: time.Minute},
	}, nil
}

// Save materializes the image source (remote URL or base64 data URL) into
// the store and returns its serving path.
func (s *FileStore) Save(ctx context.Context, personaID, src string) (string, error) {
	data, err := s.fetch(ctx, src)
	if err != nil {
		return "", err
	}

	name := personaID + ".png"
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return "/avatars/" + name, nil
}

func (s *FileStore) fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		idx := strings.Index(src, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data url")
		}
		data, err := base64.StdEncoding.DecodeString(src[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("failed to decode avatar payload: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build avatar fetch: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar fetch returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar body: %w", err)
	}
	return data, nil
}
