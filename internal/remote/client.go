// Package remote is the HTTP client for the storage server. It provides the two
// calls the rename workflow consumes: Stat and Move.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Project-Sylos/Mend/internal/api/models"
	"github.com/Project-Sylos/Mend/internal/logging"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/Project-Sylos/Mend/internal/utils"
	resty "github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	HTTPTimeout      = 30 * time.Second
	IdleConnTimeout  = 90 * time.Second
	KeepAlive        = 30 * time.Second
	MaxIdleConns     = 16
	RetryWaitTime    = 100 * time.Millisecond
	RetryWaitTimeMax = 3 * time.Second

	statEndpoint = "/api/v1/items/stat"
	moveEndpoint = "/api/v1/items/move"
	userAgent    = "mend"
)

// nodeEnvelope is the API response shape for node payloads
type nodeEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *types.Node `json:"data,omitempty"`
}

// Client talks to the storage server over HTTP
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a client configured from the remote section of the config
func NewClient(cfg types.RemoteConfig, logger *zap.Logger) *Client {
	c := &Client{
		logger: logging.OrNop(logger).Named("remote"),
	}
	c.http = createHTTPClient(cfg)
	c.setupLogs()
	return c
}

func createHTTPClient(cfg types.RemoteConfig) *resty.Client {
	c := resty.New()
	c.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	c.SetHeader("User-Agent", userAgent)
	c.SetHeader("Accept", "application/json")
	if cfg.TimeoutSeconds > 0 {
		c.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}
	c.SetTransport(createTransport())
	c.SetRetryCount(cfg.RetryCount)
	c.SetRetryWaitTime(RetryWaitTime)
	c.SetRetryMaxWaitTime(RetryWaitTimeMax)
	// Only the idempotent stat is retried. A move that reached the server must
	// never be replayed: a second attempt would fail on the missing source.
	c.AddRetryCondition(func(response *resty.Response, err error) bool {
		if response == nil || response.Request == nil || response.Request.Method != http.MethodGet {
			return false
		}
		if err != nil {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
		switch response.StatusCode() {
		case
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	})
	return c
}

func createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   HTTPTimeout,
		KeepAlive: KeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          MaxIdleConns,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   MaxIdleConns,
	}
}

func (c *Client) setupLogs() {
	c.http.AddRetryHook(func(response *resty.Response, err error) {
		if response == nil || response.Request == nil {
			return
		}
		c.logger.Warn("retrying request",
			zap.String("method", response.Request.Method),
			zap.String("url", response.Request.URL),
			zap.Int("status", response.StatusCode()),
			zap.Int("attempt", response.Request.Attempt),
			zap.Error(err),
		)
	})
	c.http.OnAfterResponse(func(_ *resty.Client, response *resty.Response) error {
		c.logger.Debug("response",
			zap.String("method", response.Request.Method),
			zap.String("url", response.Request.URL),
			zap.Int("status", response.StatusCode()),
			zap.Duration("duration", response.Time()),
		)
		return nil
	})
}

// request prepares a request for the given account. Account fields override the
// client defaults; the token is never logged.
func (c *Client) request(ctx context.Context, account *types.Account) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if account == nil {
		return req
	}
	if account.Token != "" {
		req.SetAuthToken(account.Token)
	}
	if account.User != "" {
		req.SetHeader("X-Mend-User", account.User)
	}
	return req
}

func endpoint(account *types.Account, path string) string {
	if account != nil && account.BaseURL != "" {
		return strings.TrimRight(account.BaseURL, "/") + path
	}
	return path
}

// Stat fetches the metadata of the node at remotePath. A missing node yields
// an error matching ErrNotFound; any other failure is returned as is.
func (c *Client) Stat(ctx context.Context, account *types.Account, remotePath string) (*types.Node, error) {
	remotePath = utils.CleanPath(remotePath)

	var envelope nodeEnvelope
	res, err := c.request(ctx, account).
		SetQueryParam("path", remotePath).
		SetResult(&envelope).
		SetError(&envelope).
		Get(endpoint(account, statEndpoint))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", remotePath, err)
	}
	if res.IsError() {
		return nil, newStatusError(http.MethodGet, remotePath, res, envelope)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("stat %s: empty response body", remotePath)
	}
	return envelope.Data, nil
}

// Move renames or moves the node at source to destination. It is sent once and
// never retried.
func (c *Client) Move(ctx context.Context, account *types.Account, source, destination string) error {
	body := models.MoveRequest{
		Source:      utils.CleanPath(source),
		Destination: utils.CleanPath(destination),
	}

	var envelope nodeEnvelope
	res, err := c.request(ctx, account).
		SetBody(body).
		SetResult(&envelope).
		SetError(&envelope).
		Post(endpoint(account, moveEndpoint))
	if err != nil {
		return fmt.Errorf("move %s to %s: %w", body.Source, body.Destination, err)
	}
	if res.IsError() {
		return newStatusError(http.MethodPost, body.Source, res, envelope)
	}
	return nil
}

// newStatusError builds the error for a non-success response. The storage
// server always answers errors with a message envelope; anything else came
// from somewhere else on the way.
func newStatusError(method, path string, res *resty.Response, envelope nodeEnvelope) *StatusError {
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: res.StatusCode(),
		Message:    envelope.Message,
		Foreign:    envelope.Message == "",
	}
}
