package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// defaultClientTimeout bounds every request of an [HTTPClient].
const defaultClientTimeout = 30 * time.Second

// HTTPClient is a wrapper around the resty.Client HTTP client preconfigured
// to talk to the vault API.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://localhost:8080", token.String())
//	resp, err := client.R().SetResult(&entries).Get("/api/entries")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client rooted at baseURL that sends JSON and, when
// bearerToken is non-empty, an Authorization header on every request.
func NewHTTPClient(baseURL, bearerToken string) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultClientTimeout).
		SetHeader("Accept", "application/json")

	if bearerToken != "" {
		client.SetAuthToken(bearerToken)
	}

	return &HTTPClient{Client: client}
}
