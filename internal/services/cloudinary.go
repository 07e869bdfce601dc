// Storage provider client for signed direct uploads.
//
// Endpoint shape follows the Cloudinary upload API:
// https://api.cloudinary.com/v1_1/{account}/{resource_type}/upload
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const defaultUploadBase = "https://api.cloudinary.com/v1_1"

// CloudinaryService pushes signed binaries directly to the storage provider,
// bypassing the CMS server for large media.
type CloudinaryService struct {
	uploadBase string
	httpClient *http.Client
}

// NewCloudinaryService creates a provider client. uploadBase overrides the
// production API base, mainly for tests.
func NewCloudinaryService(uploadBase string, client *http.Client) *CloudinaryService {
	if uploadBase == "" {
		uploadBase = defaultUploadBase
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &CloudinaryService{
		uploadBase: strings.TrimRight(uploadBase, "/"),
		httpClient: client,
	}
}

// Upload submits one signed multipart upload. The endpoint is derived from
// the signature's account name and the resource-type path segment. Filename
// preservation flags keep the original name while guaranteeing uniqueness.
func (c *CloudinaryService) Upload(ctx context.Context, sig *UploadSignature, resourceType string, file UploadFile, onProgress TransferProgress) (*CloudUploadResult, error) {
	if sig == nil {
		return nil, fmt.Errorf("nil upload signature")
	}
	if resourceType == "" {
		resourceType = "video"
	}

	fields := [][2]string{
		{"api_key", sig.APIKey},
		{"timestamp", strconv.FormatInt(sig.Timestamp, 10)},
		{"signature", sig.Signature},
		{"folder", sig.Folder},
		{"public_id", sig.PublicID},
		{"use_filename", "true"},
		{"unique_filename", "true"},
	}

	payload := newProgressReader(file.Reader, file.Size, onProgress)
	body, contentType := newMultipartBody(fields, "file", file.Name, payload)
	defer body.Close()

	endpoint := fmt.Sprintf("%s/%s/%s/upload", c.uploadBase, sig.AccountName, resourceType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s", providerError(resp))
	}

	var result CloudUploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	return &result, nil
}

// providerError extracts the provider's error message from a non-2xx
// response, falling back to the raw body or status code.
func providerError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return fmt.Sprintf("provider status %d", resp.StatusCode)
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}
