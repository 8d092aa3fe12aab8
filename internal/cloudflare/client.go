package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// HTTPClient is the subset of http.Client the uploader needs. It exists so
// tests can swap in a canned transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Cloudflare Images v1 API for a single account.
type Client struct {
	baseURL   string
	accountID string
	apiToken  string
	client    HTTPClient
}

type Option func(c *Client)

func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

func NewClient(accountID string, apiToken string, options ...Option) *Client {
	client := &Client{
		baseURL:   DefaultBaseURL,
		accountID: accountID,
		apiToken:  apiToken,
		client:    &http.Client{Timeout: 2 * time.Minute},
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

// APIError is a single error entry from a Cloudflare API response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Success bool       `json:"success"`
	Errors  []APIError `json:"errors"`
	Result  struct {
		ID string `json:"id"`
	} `json:"result"`
}

// RejectionError is an HTTP 200 response with success=false: the service
// accepted the request but refused the image.
type RejectionError struct {
	Errors []APIError
}

func (e *RejectionError) Error() string {
	if len(e.Errors) == 0 {
		return "cloudflare rejected the upload: unknown error"
	}

	messages := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		messages = append(messages, apiErr.Message)
	}

	return fmt.Sprintf("cloudflare rejected the upload: %s", strings.Join(messages, ", "))
}

// StatusError is a non-200 response from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.StatusCode, e.Body)
}

// UploadImage submits one PNG to the Images v1 endpoint as a multipart form
// and returns the image id Cloudflare assigned. The filename is display-only
// on the Cloudflare side.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", "image/png")

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart body: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/images/v1", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var decoded uploadResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !decoded.Success {
		errors := decoded.Errors
		if len(errors) == 0 {
			errors = []APIError{{Message: "Unknown error"}}
		}
		return "", &RejectionError{Errors: errors}
	}

	return decoded.Result.ID, nil
}
