package okx

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
)

// DefaultBaseURL is the OKX REST endpoint. Demo trading shares it and is
// selected with the x-simulated-trading header.
const DefaultBaseURL = "https://www.okx.com"

const timestampLayout = "2006-01-02T15:04:05.000Z"

// envelope is the v5 response wrapper.
type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Client is a minimal OKX v5 REST client.
type Client struct {
	http  *resty.Client
	creds types.Credentials
	demo  bool
	now   func() time.Time
}

// NewClient builds a REST client against baseURL.
func NewClient(baseURL string, creds types.Credentials, demo bool, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:  httpClient,
		creds: creds,
		demo:  demo,
		now:   time.Now,
	}
}

// Sign returns the base64 HMAC-SHA256 of timestamp+method+path+body.
func Sign(secret, timestamp, method, requestPath, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + method + requestPath + body))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Get calls a public or private GET endpoint and decodes data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, private bool, out any) error {
	requestPath := path
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}

	return c.do(ctx, http.MethodGet, requestPath, nil, private, out)
}

// Post calls a private POST endpoint with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "failed to encode request", err)
	}

	return c.do(ctx, http.MethodPost, path, payload, true, out)
}

func (c *Client) do(ctx context.Context, method, requestPath string, body []byte, private bool, out any) error {
	req := c.http.R().SetContext(ctx)

	if body != nil {
		req.SetBody(body)
	}

	if c.demo {
		req.SetHeader("x-simulated-trading", "1")
	}

	if private {
		if c.creds.APIKey == "" || c.creds.SecretKey == "" || c.creds.Passphrase == "" {
			return errors.New(errors.ErrCodeMissingCredentials, "missing okx credentials")
		}

		timestamp := c.now().UTC().Format(timestampLayout)
		req.SetHeaders(map[string]string{
			"OK-ACCESS-KEY":        c.creds.APIKey,
			"OK-ACCESS-SIGN":       Sign(c.creds.SecretKey, timestamp, method, requestPath, string(body)),
			"OK-ACCESS-TIMESTAMP":  timestamp,
			"OK-ACCESS-PASSPHRASE": c.creds.Passphrase,
		})
	}

	var result envelope

	req.SetResult(&result).SetError(&result)

	resp, err := req.Execute(method, requestPath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExchangeRequestFailed, err, "okx %s %s failed", method, requestPath)
	}

	if result.Code != "" && result.Code != "0" {
		return errors.Newf(errors.ErrCodeExchangeRejected, "okx rejected %s: %s (code %s)", requestPath, result.Msg, result.Code)
	}

	if resp.IsError() {
		return errors.Newf(errors.ErrCodeExchangeRequestFailed, "okx %s returned HTTP %d", requestPath, resp.StatusCode())
	}

	if out == nil || len(result.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(result.Data, out); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidMarketData, err, "failed to decode okx %s response", requestPath)
	}

	return nil
}
