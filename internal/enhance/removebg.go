package enhance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"artisania/internal/imagedata"
)

const defaultRemoveBGEndpoint = "https://api.remove.bg/v1.0/removebg"

// BackgroundRemover is the capability used by the enhancement step to cut the
// subject out of a product photo.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, img imagedata.Payload) (imagedata.Payload, error)
}

// RemoveBGClient calls a remove.bg-style cutout API: the image goes out as a
// multipart upload and the binary response body is the cutout.
type RemoveBGClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewRemoveBGClient creates a new background removal client. An empty endpoint
// selects the remove.bg production API.
func NewRemoveBGClient(apiKey, endpoint string) *RemoveBGClient {
	if endpoint == "" {
		endpoint = defaultRemoveBGEndpoint
	}
	return &RemoveBGClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RemoveBackground sends the image to the cutout provider and returns the
// resulting image bytes.
func (c *RemoveBGClient) RemoveBackground(ctx context.Context, img imagedata.Payload) (imagedata.Payload, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("size", "auto"); err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to build request: %w", err)
	}

	filename := "image.jpg"
	if img.MIME == imagedata.MIMEPNG {
		filename = "image.png"
	}
	part, err := writer.CreateFormFile("image_file", filename)
	if err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return imagedata.Payload{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return imagedata.Payload{}, fmt.Errorf("background removal failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return imagedata.Payload{Data: respBody, MIME: imagedata.SniffMIME(respBody)}, nil
}
