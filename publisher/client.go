package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"wechat_article_proxy/config"
)

const (
	tokenPath          = "/cgi-bin/token"
	addDraftPath       = "/cgi-bin/draft/add"
	batchGetDraftsPath = "/cgi-bin/draft/batchget"
	addMaterialPath    = "/cgi-bin/material/add_material"

	// MaxDraftBatch is the largest page draft/batchget accepts.
	MaxDraftBatch = 20
)

// ErrUpstreamStatus is returned when WeChat answers with a non-2xx status.
var ErrUpstreamStatus = errors.New("wechat: unexpected http status")

// Reply is a WeChat API response relayed to the caller as-is.
type Reply map[string]any

// Client talks to the WeChat Official Account API. Credentials and access
// tokens are passed per call, the client itself holds none.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *logrus.Logger
}

// NewClient builds a client with the configured base URL and per-call timeout.
func NewClient(cfg config.WeChatConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		http:    resty.New().SetTimeout(cfg.TimeoutDuration()),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// Token fetches an access token with the caller's app credentials.
func (c *Client) Token(ctx context.Context, appID, appSecret string) (Reply, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"grant_type": "client_credential",
			"appid":      appID,
			"secret":     appSecret,
		}).
		Get(c.baseURL + tokenPath)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, tokenPath)
}

// AddDraft posts articles to draft/add. Articles are forwarded untouched.
func (c *Client) AddDraft(ctx context.Context, accessToken string, articles []map[string]any) (Reply, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"articles": articles}).
		Post(c.baseURL + addDraftPath)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, addDraftPath)
}

// DraftQuery pages through the draft box.
type DraftQuery struct {
	Offset    int
	Count     int
	NoContent bool
}

// BatchGetDrafts lists drafts. Count is clamped to 1..MaxDraftBatch.
func (c *Client) BatchGetDrafts(ctx context.Context, accessToken string, q DraftQuery) (Reply, error) {
	body := map[string]int{
		"offset": max(q.Offset, 0),
		"count":  min(max(q.Count, 1), MaxDraftBatch),
	}
	if q.NoContent {
		body["no_content"] = 1
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseURL + batchGetDraftsPath)
	if err != nil {
		return nil, err
	}
	return c.decode(resp, batchGetDraftsPath)
}

func (c *Client) decode(resp *resty.Response, path string) (Reply, error) {
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status())
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	var reply Reply
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	if reply == nil {
		return nil, fmt.Errorf("decode %s response: empty body", path)
	}

	c.logger.WithFields(logrus.Fields{
		"path":    path,
		"errcode": reply["errcode"],
		"took":    resp.Time(),
	}).Debug("wechat call done")
	return reply, nil
}
