// Package api is the HTTP client for the remote receipt service: the
// persistence endpoints (list, delete) and the extraction endpoint.
package api

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

	"github.com/McKlay/receipt-data-extractor/internal/extraction"
	"github.com/McKlay/receipt-data-extractor/internal/receipt"
)

// Client talks to the receipt service at a single base URL. It implements
// receipt.PersistenceClient and extraction.Extractor.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			// Extraction runs an ML model on the server side and can be slow.
			Timeout: 120 * time.Second,
		},
	}
}

// ListReceipts fetches the full receipt collection.
func (c *Client) ListReceipts(ctx context.Context, token string) ([]receipt.Receipt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/receipts", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	setAuth(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling receipt service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	receipts := make([]receipt.Receipt, 0)
	if err := json.NewDecoder(resp.Body).Decode(&receipts); err != nil {
		return nil, fmt.Errorf("decoding receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt deletes one receipt by id. No response body is required.
func (c *Client) DeleteReceipt(ctx context.Context, token string, id string) error {
	url := fmt.Sprintf("%s/receipts/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	setAuth(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling receipt service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return nil
}

// Extract uploads the file as the single multipart "file" field and decodes
// the extraction payload.
func (c *Client) Extract(ctx context.Context, token string, file extraction.File) (*extraction.Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, file.Name))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setAuth(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var result extraction.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding extraction result: %w", err)
	}
	return &result, nil
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if len(body) == 0 {
		return fmt.Errorf("receipt service error (status %d)", resp.StatusCode)
	}
	return fmt.Errorf("receipt service error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
