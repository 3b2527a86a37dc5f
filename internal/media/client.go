// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/casavia/casavia/internal/config"
	"github.com/casavia/casavia/internal/logging"
	"github.com/casavia/casavia/internal/metrics"
)

// UploadResult is the CDN's answer to a successful upload.
type UploadResult struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	ResourceType string `json:"resource_type"`
	Format       string `json:"format"`
	Bytes        int64  `json:"bytes"`
}

// Client performs signed calls against the media CDN. Outbound calls have a
// bounded timeout and are never retried automatically: an upload that timed
// out may still have landed, and a blind retry would duplicate the asset.
// A circuit breaker sheds calls while the CDN is misbehaving.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string

	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[*UploadResult]

	// now is replaceable in tests; it stamps the signed timestamp.
	now func() time.Time
}

// NewClient creates a CDN client from configuration.
func NewClient(cfg config.MediaConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*UploadResult](gobreaker.Settings{
		Name:    "media-cdn",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Media CDN circuit breaker state change")
		},
	})

	return &Client{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    cfg.UploadFolder,
		baseURL:   "https://api.cloudinary.com/v1_1",
		httpc:     &http.Client{Timeout: timeout},
		breaker:   breaker,
		now:       time.Now,
	}
}

// Configured reports whether CDN credentials are present.
func (c *Client) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// Upload sends a signed multipart upload and returns the stored asset.
// resourceType is "image" or "video".
func (c *Client) Upload(ctx context.Context, file io.Reader, filename, resourceType string) (*UploadResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("media CDN is not configured")
	}

	result, err := c.breaker.Execute(func() (*UploadResult, error) {
		timestamp := strconv.FormatInt(c.now().Unix(), 10)
		params := map[string]string{
			"timestamp": timestamp,
			"folder":    c.folder,
		}
		signature := Sign(params, c.apiSecret)

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)

		fields := map[string]string{
			"api_key":   c.apiKey,
			"timestamp": timestamp,
			"folder":    c.folder,
			"signature": signature,
		}
		for k, v := range fields {
			if err := writer.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("failed to build upload form: %w", err)
			}
		}

		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("failed to read upload payload: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to finalize upload form: %w", err)
		}

		endpoint := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, resourceType)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
		if err != nil {
			return nil, fmt.Errorf("failed to build upload request: %w", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("upload request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, data)
		}

		result := &UploadResult{}
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return nil, fmt.Errorf("failed to decode upload response: %w", err)
		}
		return result, nil
	})
	metrics.MediaCDNCalls.WithLabelValues("upload", outcome(err)).Inc()
	return result, err
}

// outcome maps a call result to the metric label.
func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Destroy deletes an asset by public id with a signed request.
func (c *Client) Destroy(ctx context.Context, publicID, resourceType string) error {
	if !c.Configured() {
		return fmt.Errorf("media CDN is not configured")
	}

	_, err := c.breaker.Execute(func() (*UploadResult, error) {
		timestamp := strconv.FormatInt(c.now().Unix(), 10)
		params := map[string]string{
			"timestamp": timestamp,
			"public_id": publicID,
		}
		signature := Sign(params, c.apiSecret)

		form := url.Values{}
		form.Set("public_id", publicID)
		form.Set("timestamp", timestamp)
		form.Set("api_key", c.apiKey)
		form.Set("signature", signature)

		endpoint := fmt.Sprintf("%s/%s/%s/destroy", c.baseURL, c.cloudName, resourceType)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to build destroy request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("destroy request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("destroy rejected with status %d: %s", resp.StatusCode, data)
		}
		return nil, nil
	})
	metrics.MediaCDNCalls.WithLabelValues("destroy", outcome(err)).Inc()
	return err
}

// DeliveryURL builds the public delivery URL for an asset, with an optional
// transformation segment such as "w_800,q_auto".
func (c *Client) DeliveryURL(publicID, resourceType, transform string) string {
	if transform != "" {
		return fmt.Sprintf("https://res.cloudinary.com/%s/%s/upload/%s/%s", c.cloudName, resourceType, transform, publicID)
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/%s/upload/%s", c.cloudName, resourceType, publicID)
}
