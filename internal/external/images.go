package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ImagesClient uploads base64-encoded images to the hosting service and
// returns their public URLs.
type ImagesClient struct {
	baseURL      string
	uploadPreset string
	httpClient   *http.Client
}

type ImagesConfig struct {
	BaseURL      string
	UploadPreset string
	Timeout      time.Duration
}

type imageUploadRequest struct {
	File         string `json:"file"`
	UploadPreset string `json:"upload_preset,omitempty"`
}

type imageUploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewImagesClient(cfg ImagesConfig) *ImagesClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &ImagesClient{
		baseURL:      cfg.BaseURL,
		uploadPreset: cfg.UploadPreset,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether an upload endpoint is configured.
func (ic *ImagesClient) Enabled() bool {
	return ic.baseURL != ""
}

// IsUploadable reports whether the value is a base64 payload rather than an
// already-hosted URL.
func IsUploadable(image string) bool {
	return strings.HasPrefix(image, "data:")
}

// Upload posts a base64 image and returns its secure URL.
func (ic *ImagesClient) Upload(image string) (string, error) {
	body, err := json.Marshal(imageUploadRequest{
		File:         image,
		UploadPreset: ic.uploadPreset,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload request: %w", err)
	}

	resp, err := ic.httpClient.Post(ic.baseURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	var payload imageUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("image endpoint returned %d: %s", resp.StatusCode, payload.Error.Message)
	}
	if payload.SecureURL == "" {
		return "", fmt.Errorf("image endpoint returned no secure_url")
	}

	return payload.SecureURL, nil
}
