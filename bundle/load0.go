package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// load0UploadResponse mirrors the JSON body returned by the off-chain
// uploader (§9).
type load0UploadResponse struct {
	OptimisticHash string `json:"optimistic_hash"`
	Success        bool   `json:"success"`
}

// PropagateToLoad0 uploads a single envelope's raw data directly to the
// off-chain object store, bypassing on-chain anchoring entirely. This is a
// shortcut path, not part of the core codec (§9); it is only meaningful for
// single-envelope payloads.
func PropagateToLoad0(ctx context.Context, endpoint, apiKey string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/upload", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("bundle: building load0 request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Load-Authorization", apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("bundle: load0 upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("bundle: load0 upload failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("bundle: reading load0 response: %w", err)
	}

	var parsed load0UploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("bundle: decoding load0 response: %w", err)
	}
	if !parsed.Success {
		return "0x0000000000000000000000000000000000000000000000000000000000000000", nil
	}
	return parsed.OptimisticHash, nil
}
