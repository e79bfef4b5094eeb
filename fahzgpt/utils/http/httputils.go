package httputils

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// GetBytes fetches a URL and returns the raw body plus its Content-Type.
// Used for media downloads.
func GetBytes(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	r, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(r.Body)
		return nil, "", fmt.Errorf("bad status: %d - %s", r.StatusCode, string(b))
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return data, r.Header.Get("Content-Type"), nil
}
