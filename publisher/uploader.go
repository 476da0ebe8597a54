package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"
)

// ErrMissingUploadParams is returned by uploaders that need a token and URL.
var ErrMissingUploadParams = errors.New("accessToken and imageUrl are required")

// UploadRequest names an image to push into WeChat's permanent materials.
type UploadRequest struct {
	AccessToken string `json:"accessToken"`
	ImageURL    string `json:"imageUrl"`
}

// ImageUploader turns a remote image into a WeChat media_id.
type ImageUploader interface {
	UploadFromURL(ctx context.Context, req UploadRequest) (string, error)
}

// PlaceholderUploader does not talk to WeChat at all. It hands out
// mock_media_id_<unix seconds> so the rest of the flow can be exercised.
type PlaceholderUploader struct {
	Now func() time.Time
}

func (p PlaceholderUploader) UploadFromURL(_ context.Context, _ UploadRequest) (string, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return "mock_media_id_" + strconv.FormatInt(now().Unix(), 10), nil
}

// MaterialUploader downloads the image and uploads it with
// material/add_material (type=image).
type MaterialUploader struct {
	client *Client
}

func NewMaterialUploader(client *Client) *MaterialUploader {
	return &MaterialUploader{client: client}
}

type addMaterialResp struct {
	MediaID string `json:"media_id"`
	URL     string `json:"url"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (m *MaterialUploader) UploadFromURL(ctx context.Context, req UploadRequest) (string, error) {
	if req.AccessToken == "" || req.ImageURL == "" {
		return "", ErrMissingUploadParams
	}

	img, err := m.client.http.R().SetContext(ctx).Get(req.ImageURL)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	if !img.IsSuccess() {
		return "", fmt.Errorf("download image: %w: %s", ErrUpstreamStatus, img.Status())
	}

	var data addMaterialResp
	resp, err := m.client.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": req.AccessToken,
			"type":         "image",
		}).
		SetFileReader("media", imageFileName(req.ImageURL), bytes.NewReader(img.Body())).
		SetResult(&data).
		ForceContentType("application/json").
		Post(m.client.baseURL + addMaterialPath)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status())
	}
	if data.MediaID == "" {
		return "", fmt.Errorf("failed to upload image: %d %s", data.ErrCode, data.ErrMsg)
	}
	m.client.logger.WithField("media_id", data.MediaID).Info("image uploaded to materials")
	return data.MediaID, nil
}

var _ ImageUploader = PlaceholderUploader{}
var _ ImageUploader = (*MaterialUploader)(nil)

func imageFileName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "image.jpg"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || path.Ext(name) == "" {
		return "image.jpg"
	}
	return name
}
