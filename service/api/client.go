package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/chain"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/client"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ledger"
)

// Client talks to a remote node through its HTTP read model
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Node = &Client{}
var _ client.Ledger = &Client{}

// NewClient ...
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// StatusError is returned for responses that are not mapped to a node error
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
}

func statusToError(code int, body []byte) error {
	var resp errorResponse
	_ = json.Unmarshal(body, &resp)

	switch code {
	case http.StatusNotFound:
		if strings.Contains(resp.Error, chain.ErrAffiliateNotFound.Error()) {
			return chain.ErrAffiliateNotFound
		}
		return chain.ErrCampaignNotFound
	case http.StatusServiceUnavailable:
		if strings.Contains(resp.Error, chain.ErrQueueFull.Error()) {
			return chain.ErrQueueFull
		}
		if strings.Contains(resp.Error, chain.ErrJournalBehind.Error()) {
			return chain.ErrJournalBehind
		}
	}
	return &StatusError{Code: code, Message: resp.Error}
}

func (c *Client) do(ctx context.Context, method string, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return statusToError(resp.StatusCode, data)
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(data, result)
}

// Deploy ...
func (c *Client) Deploy(ctx context.Context, advertiser model.Address) (uint64, error) {
	var resp deployResponse
	err := c.do(ctx, http.MethodPost, "/campaigns", deployRequest{Advertiser: advertiser}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.CampaignID, nil
}

// Submit ...
func (c *Client) Submit(ctx context.Context, campaignID uint64, msg ledger.Message) error {
	path := fmt.Sprintf("/campaigns/%d/messages", campaignID)
	return c.do(ctx, http.MethodPost, path, msg, nil)
}

// Campaign ...
func (c *Client) Campaign(ctx context.Context, campaignID uint64) (model.Campaign, error) {
	var campaign model.Campaign
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/campaigns/%d", campaignID), nil, &campaign)
	return campaign, err
}

// Affiliate ...
func (c *Client) Affiliate(ctx context.Context, campaignID uint64, affiliateID uint32) (model.Affiliate, error) {
	var aff model.Affiliate
	path := fmt.Sprintf("/campaigns/%d/affiliates/%d", campaignID, affiliateID)
	err := c.do(ctx, http.MethodGet, path, nil, &aff)
	return aff, err
}

// Affiliates ...
func (c *Client) Affiliates(ctx context.Context, campaignID uint64, from, to uint32) ([]model.Affiliate, error) {
	query := url.Values{}
	query.Set("from", strconv.FormatUint(uint64(from), 10))
	query.Set("to", strconv.FormatUint(uint64(to), 10))

	var result []model.Affiliate
	path := fmt.Sprintf("/campaigns/%d/affiliates?%s", campaignID, query.Encode())
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// RecentTransactions ...
func (c *Client) RecentTransactions(ctx context.Context, campaignID uint64, limit int) ([]model.Transaction, error) {
	var result []model.Transaction
	path := fmt.Sprintf("/campaigns/%d/transactions?limit=%d", campaignID, limit)
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// Notifications ...
func (c *Client) Notifications(ctx context.Context, since uint64, limit int) ([]model.Notification, error) {
	var result []model.Notification
	path := fmt.Sprintf("/notifications?since=%d&limit=%d", since, limit)
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// Catalog ...
func (c *Client) Catalog(ctx context.Context) ([]ledger.CatalogEntry, error) {
	var result []ledger.CatalogEntry
	err := c.do(ctx, http.MethodGet, "/catalog", nil, &result)
	return result, err
}
