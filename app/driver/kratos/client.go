package kratos

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	kratosclient "github.com/ory/kratos-client-go"

	"postboard/app/config"
)

// Client wraps the Kratos public self-service API
type Client struct {
	api       *kratosclient.APIClient
	publicURL string
	logger    *slog.Logger
}

// NewClient creates a new Kratos client
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if !isValidURL(cfg.KratosPublicURL) {
		return nil, fmt.Errorf("invalid Kratos public URL: %s", cfg.KratosPublicURL)
	}

	apiConfig := kratosclient.NewConfiguration()
	apiConfig.Servers = []kratosclient.ServerConfiguration{
		{
			URL: cfg.KratosPublicURL,
		},
	}
	apiConfig.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}
	if apiConfig.DefaultHeader == nil {
		apiConfig.DefaultHeader = make(map[string]string)
	}
	apiConfig.DefaultHeader["Accept"] = "application/json"
	apiConfig.DefaultHeader["Content-Type"] = "application/json"

	logger.Info("kratos client initialized", "public_url", cfg.KratosPublicURL)

	return &Client{
		api:       kratosclient.NewAPIClient(apiConfig),
		publicURL: cfg.KratosPublicURL,
		logger:    logger,
	}, nil
}

// API returns the underlying API client
func (c *Client) API() *kratosclient.APIClient {
	return c.api
}

// PublicURL returns the configured public URL
func (c *Client) PublicURL() string {
	return c.publicURL
}

// HealthCheck checks if Kratos is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, response, err := c.api.MetadataAPI.GetVersion(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to connect to Kratos public API: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("Kratos public API returned status %d", response.StatusCode)
	}

	return nil
}

// isValidURL validates if a URL is properly formatted
func isValidURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return parsedURL.Scheme != "" && parsedURL.Host != ""
}
