package minhareceita

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/domain/entity"
)

const (
	DefaultBaseURL = "https://minhareceita.org/"
	userAgent      = "pontodigital-lookup/1.0"
	retryDelay     = 500 * time.Millisecond
)

var (
	ErrNotFound    = errors.New("cnpj not registered")
	ErrRateLimited = errors.New("minhareceita is rate limiting requests")
)

// Client queries the public Receita Federal mirror. CNPJs must be passed as
// 14 digits, without punctuation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetByCNPJ retries once when the mirror answers with a server error.
func (c *Client) GetByCNPJ(ctx context.Context, cnpj string) (*entity.CNPJLookup, error) {
	lookup, retry, err := c.fetch(ctx, cnpj)
	if !retry {
		return lookup, err
	}

	log.Debugf("retrying minhareceita lookup for %s after: %v", cnpj, err)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}

	lookup, _, err = c.fetch(ctx, cnpj)
	return lookup, err
}

func (c *Client) fetch(ctx context.Context, cnpj string) (*entity.CNPJLookup, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+cnpj, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("minhareceita request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusBadRequest:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("minhareceita answered %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("minhareceita answered %d", resp.StatusCode)
	}

	var company companyResponse
	if err := json.NewDecoder(resp.Body).Decode(&company); err != nil {
		return nil, false, fmt.Errorf("decode minhareceita body: %w", err)
	}
	return company.ToDomain(), false, nil
}
