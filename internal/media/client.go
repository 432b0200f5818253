// AngelaMos | 2026
// client.go

package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
)

// Client talks to the hosted image store over its HTTP API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.MediaConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) Upload(
	ctx context.Context,
	file io.Reader,
	filename, folder string,
	transform Transform,
) (*Image, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}

	fields := map[string]string{
		"folder": folder,
	}
	if transform.Width > 0 {
		fields["width"] = strconv.Itoa(transform.Width)
	}
	if transform.Crop != "" {
		fields["crop"] = transform.Crop
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+"/upload",
		&body,
	)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", core.ErrDependency)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"upload image: %s: %w",
			resp.Status,
			core.ErrDependency,
		)
	}

	var image Image
	if err := json.NewDecoder(resp.Body).Decode(&image); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	if image.ID == "" || image.URL == "" {
		return nil, fmt.Errorf(
			"upload image: incomplete response: %w",
			core.ErrDependency,
		)
	}

	return &image, nil
}

func (c *Client) Destroy(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.endpoint+"/assets/"+id,
		nil,
	)
	if err != nil {
		return fmt.Errorf("build destroy request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroy image: %w", core.ErrDependency)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf(
			"destroy image: %s: %w",
			resp.Status,
			core.ErrDependency,
		)
	}

	return nil
}

var _ Store = (*Client)(nil)
