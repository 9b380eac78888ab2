package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/petmatch/internal/domain"
)

const defaultMaxImageBytes = 10 << 20

type imageFetcher struct {
	client   *http.Client
	maxBytes int64
}

func newImageFetcher(maxBytes int64) *imageFetcher {
	if maxBytes <= 0 {
		maxBytes = defaultMaxImageBytes
	}
	return &imageFetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: maxBytes,
	}
}

// dataURI downloads ref and encodes it as a base64 data URI.
// Data URIs pass through unchanged. Every failure wraps domain.ErrImageUnavailable.
func (f *imageFetcher) dataURI(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "data:") {
		return ref, nil
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return "", fmt.Errorf("unsupported image reference %q: %w", ref, domain.ErrImageUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build image request: %w: %w", err, domain.ErrImageUnavailable)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w: %w", err, domain.ErrImageUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status %d: %w", resp.StatusCode, domain.ErrImageUnavailable)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w: %w", err, domain.ErrImageUnavailable)
	}
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("image exceeds %d bytes: %w", f.maxBytes, domain.ErrImageUnavailable)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("not an image (%s): %w", mime, domain.ErrImageUnavailable)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
