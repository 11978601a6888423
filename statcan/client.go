// Package statcan implements a client for Statistics Canada's Web Data
// Service (WDS) REST API and term search over its cube list. The client
// covers the three endpoints the service needs: getCubeMetadata,
// getAllCubesList and getCodeSets.
package statcan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shinysc/statcan-tables-api/logging"
	"github.com/shinysc/statcan-tables-api/metrics"
	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// DefaultBaseURL is the production WDS endpoint root.
const DefaultBaseURL = "https://www150.statcan.gc.ca/t1/wds/rest"

// Client talks to the WDS REST API with retries and timeouts.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a WDS client. An empty baseURL selects the production
// endpoint; timeout bounds each attempt including retries at the transport
// level.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: retryClient.StandardClient(),
	}
}

// metadataEnvelope wraps each element of a getCubeMetadata response.
type metadataEnvelope struct {
	Status string                `json:"status"`
	Object entities.CubeMetadata `json:"object"`
}

// codeSetsEnvelope wraps the getCodeSets response.
type codeSetsEnvelope struct {
	Status string            `json:"status"`
	Object entities.CodeSets `json:"object"`
}

// CubeMetadata fetches the full metadata for one cube by productId.
func (c *Client) CubeMetadata(ctx context.Context, productID int) (*entities.CubeMetadata, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("invalid productId: %d", productID)
	}

	// The endpoint expects a list of pid objects, pids as strings.
	payload := []map[string]string{
		{"productId": strconv.Itoa(productID)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal getCubeMetadata payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/getCubeMetadata", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build getCubeMetadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var envelopes []metadataEnvelope
	if err := c.do(req, "getCubeMetadata", &envelopes); err != nil {
		return nil, err
	}

	if len(envelopes) == 0 {
		return nil, fmt.Errorf("getCubeMetadata returned no objects for %d", productID)
	}
	if envelopes[0].Status != "SUCCESS" {
		return nil, fmt.Errorf("getCubeMetadata returned status %q for %d", envelopes[0].Status, productID)
	}

	md := envelopes[0].Object
	return &md, nil
}

// AllCubes fetches the full cubes list.
func (c *Client) AllCubes(ctx context.Context) ([]entities.Cube, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getAllCubesList", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build getAllCubesList request: %w", err)
	}

	var cubes []entities.Cube
	if err := c.do(req, "getAllCubesList", &cubes); err != nil {
		return nil, err
	}
	return cubes, nil
}

// CodeSets fetches the classification code sets.
func (c *Client) CodeSets(ctx context.Context) (*entities.CodeSets, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getCodeSets", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build getCodeSets request: %w", err)
	}

	var envelope codeSetsEnvelope
	if err := c.do(req, "getCodeSets", &envelope); err != nil {
		return nil, err
	}
	if envelope.Status != "SUCCESS" {
		return nil, fmt.Errorf("getCodeSets returned status %q", envelope.Status)
	}
	return &envelope.Object, nil
}

// do executes a request, enforces a 2xx response and decodes the JSON body.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.WDSRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("wds %s request failed: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close WDS response body", "endpoint", endpoint, "error", err)
		}
	}()

	metrics.WDSRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("wds %s returned HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read wds %s response: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode wds %s response: %w", endpoint, err)
	}
	return nil
}
