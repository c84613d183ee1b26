package weebly

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

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the platform (10MB)
const maxResponseSize = 10 * 1024 * 1024

const (
	acceptHeader = "application/vnd.weebly.v1+json"

	unknownAPIKeyMessage = "Unknown api key"
	siteNotFoundMessage  = "Site not found"
)

// expectedPublishErrors are publish failures the platform reports for
// reasons outside our control. The platform localizes some of them.
var expectedPublishErrors = []string{
	"This site cannot be published",
	"Questo sito non può essere pubblicato",
	"CAPTCHA",
	"Product count is too high",
	"Produktanzahl ist zu hoch",
	"商品数が多すぎます",
	"Unable to build new Snapshot",
	"Member count is too high",
	"findShard failed",
	"Account Verification",
	"Accountverificatie",
	"Este site não pode ser publicado",
	"Es necesario verificar la cuenta antes de publicar",
	"El número de suscripciones es demasiado alto",
	"Le nombre de membre est trop élevé",
}

// expectedBlogErrors covers sites whose token lacks the blog read scope
var expectedBlogErrors = []string{
	"access to the requested user information",
}

// Client implements the platform.Gateway port against the Weebly REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	appName    string
	clientID   string
	pageLimit  int
	logger     *zap.Logger
}

// NewClient creates a new platform API client
func NewClient(cfg *config.WeeblyConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		appName:    cfg.AppName,
		clientID:   cfg.ClientID,
		pageLimit:  cfg.PageLimit,
		logger:     logger.Named("weebly"),
	}
}

// doRequest performs one request against the platform and returns the
// raw JSON body of a successful response. Failures come back as
// *platform.RequestError classified by the expected error list.
func (c *Client) doRequest(ctx context.Context, token platform.AccessToken, method, path string, params url.Values, body any, op string, expected []string) (json.RawMessage, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.appName)
	req.Header.Set("X-Weebly-Access-Token", token.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Info(op,
		zap.String("method", method),
		zap.String("url", reqURL),
		zap.String("credential", token.Label()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := &platform.RequestError{
			Op:      op,
			Message: err.Error(),
			Err:     platform.ErrUnavailable,
		}
		c.logger.Error("request error",
			zap.String("op", op),
			zap.String("credential", token.Label()),
			zap.Error(err))
		return nil, reqErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &platform.RequestError{
			Op:      op,
			Message: err.Error(),
			Err:     platform.ErrUnavailable,
		}
	}

	if !json.Valid(raw) {
		c.logger.Warn("no JSON response",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(raw), 512)))
		return nil, &platform.RequestError{
			Op:         op,
			Message:    "invalid JSON response",
			StatusCode: resp.StatusCode,
			Expected:   true,
			Err:        platform.ErrInvalidResponse,
		}
	}

	if resp.StatusCode == http.StatusOK {
		c.logger.Debug(op + " - OK")
		return json.RawMessage(raw), nil
	}

	var envelope errorEnvelope
	_ = json.Unmarshal(raw, &envelope)
	reqErr := classify(op, envelope.Error.Message, resp.StatusCode, expected)
	if reqErr.Expected {
		c.logger.Warn(reqErr.Error(),
			zap.Int("status", resp.StatusCode),
			zap.String("credential", token.Label()))
	} else {
		c.logger.Error(reqErr.Error(),
			zap.Int("status", resp.StatusCode),
			zap.String("credential", token.Label()))
	}
	return nil, reqErr
}

// classify builds the RequestError for a failed platform call. A
// rejected token and a missing site map onto sentinels so callers can
// react; anything on the expected list is downgraded to routine.
func classify(op, message string, status int, expected []string) *platform.RequestError {
	reqErr := &platform.RequestError{
		Op:         op,
		Message:    message,
		StatusCode: status,
		Err:        platform.ErrRequestFailed,
	}
	if strings.Contains(message, unknownAPIKeyMessage) {
		reqErr.Err = platform.ErrUnknownAPIKey
		reqErr.Expected = true
		return reqErr
	}
	if strings.Contains(message, siteNotFoundMessage) {
		reqErr.Err = platform.ErrSiteNotFound
	}
	for _, candidate := range expected {
		if strings.Contains(message, candidate) {
			reqErr.Expected = true
			break
		}
	}
	return reqErr
}

// doRequestPaginated walks a paginated listing and returns the
// concatenated elements. On failure the elements fetched so far are
// returned along with the error.
func (c *Client) doRequestPaginated(ctx context.Context, token platform.AccessToken, path, op string, expected []string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	page := 1
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(c.pageLimit))
		params.Set("page", strconv.Itoa(page))

		raw, err := c.doRequest(ctx, token, http.MethodGet, path, params, nil, op, expected)
		if err != nil {
			return all, err
		}

		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return all, &platform.RequestError{
				Op:      op,
				Message: "expected a JSON array",
				Err:     platform.ErrInvalidResponse,
			}
		}
		all = append(all, elems...)
		if len(elems) < c.pageLimit {
			return all, nil
		}
		page++
		c.logger.Info("paginated request", zap.String("op", op), zap.Int("page", page))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
