package remoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"commerce-sync-bridge/internal/domain"
	"commerce-sync-bridge/internal/ports"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public endpoint of the marketing API
	DefaultBaseURL = "https://api.getresponse.com/v3"
	defaultTimeout = 10 * time.Second
)

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new remote marketing API client
func NewClient(baseURL, apiKey string, logger zerolog.Logger) ports.RemoteAPI {
	return NewClientWithHTTPClient(baseURL, apiKey, &http.Client{Timeout: defaultTimeout}, logger)
}

// NewClientWithHTTPClient creates a client on top of an existing http.Client
func NewClientWithHTTPClient(baseURL, apiKey string, httpClient *http.Client, logger zerolog.Logger) ports.RemoteAPI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *client) GetProduct(ctx context.Context, storeID string, productID string) (*domain.RemoteProduct, error) {
	var product domain.RemoteProduct
	path := fmt.Sprintf("/shops/%s/products/%s", url.PathEscape(storeID), url.PathEscape(productID))
	if err := c.do(ctx, "get_product", http.MethodGet, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *client) CreateProduct(ctx context.Context, storeID string, params domain.ProductParams) (*domain.RemoteProduct, error) {
	var product domain.RemoteProduct
	path := fmt.Sprintf("/shops/%s/products", url.PathEscape(storeID))
	if err := c.do(ctx, "create_product", http.MethodPost, path, params, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct uses POST on the product resource, the API has no PUT
func (c *client) UpdateProduct(ctx context.Context, storeID string, productID string, params domain.ProductParams) (*domain.RemoteProduct, error) {
	var product domain.RemoteProduct
	path := fmt.Sprintf("/shops/%s/products/%s", url.PathEscape(storeID), url.PathEscape(productID))
	if err := c.do(ctx, "update_product", http.MethodPost, path, params, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *client) do(ctx context.Context, operation, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", "api-key "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.APIError{Operation: operation, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.APIError{Operation: operation, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &domain.APIError{Operation: operation, StatusCode: resp.StatusCode}
		if len(respBody) > 0 {
			_ = json.Unmarshal(respBody, apiErr)
		}
		c.logger.Warn().
			Str("operation", operation).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("Remote API request failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &domain.APIError{Operation: operation, StatusCode: resp.StatusCode, Message: "invalid response body: " + err.Error()}
	}
	return nil
}
