package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"wechat_article_proxy/generator"
	"wechat_article_proxy/publisher"
)

const maxBodyBytes = 8 << 20

// --- Envelopes ---

// weChatEnvelope is the failure shape of /api/wechat/*, mirroring WeChat's own.
type weChatEnvelope struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func weChatFailure(msg string) weChatEnvelope {
	return weChatEnvelope{ErrCode: -1, ErrMsg: msg}
}

// aiEnvelope is the shape of /api/ai/*.
type aiEnvelope struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

type healthResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type uploadResp struct {
	MediaID string `json:"media_id"`
}

// --- Requests ---

type tokenReq struct {
	AppID     string `json:"appId" validate:"required"`
	AppSecret string `json:"appSecret" validate:"required"`
}

type draftReq struct {
	AccessToken string           `json:"accessToken" validate:"required"`
	Articles    []map[string]any `json:"articles" validate:"required,min=1"`
}

type draftListReq struct {
	AccessToken string `json:"accessToken" validate:"required"`
	Offset      int    `json:"offset"`
	Count       int    `json:"count"`
	NoContent   bool   `json:"noContent"`
}

type renderReq struct {
	Markdown string `json:"markdown" validate:"required"`
}

var errTrailingData = errors.New("unexpected data after json body")

// decode reads exactly one JSON value. Malformed input or anything after the
// value gets a plain 400 and false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if err == nil {
		if _, tail := dec.Token(); !errors.Is(tail, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		s.logger.WithError(err).WithField("path", r.URL.Path).Debug("invalid json body")
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResp{Status: "ok", Message: healthMessage})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, weChatFailure("缺少AppID或AppSecret"))
		return
	}

	reply, err := s.wechat.Token(r.Context(), req.AppID, req.AppSecret)
	if err != nil {
		s.logger.WithError(err).Error("wechat token request failed")
		writeJSON(w, weChatFailure("请求失败: "+err.Error()))
		return
	}
	writeJSON(w, reply)
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !s.decode(w, r, &raw) {
		return
	}
	// any JSON is accepted; only object bodies carry upload fields
	var req publisher.UploadRequest
	_ = json.Unmarshal(raw, &req)

	mediaID, err := s.uploader.UploadFromURL(r.Context(), req)
	switch {
	case errors.Is(err, publisher.ErrMissingUploadParams):
		writeJSON(w, weChatFailure("缺少必要参数"))
		return
	case err != nil:
		s.logger.WithError(err).Error("image upload failed")
		writeJSON(w, weChatFailure("上传图片失败: "+err.Error()))
		return
	}
	writeJSON(w, uploadResp{MediaID: mediaID})
}

func (s *Server) handleAddDraft(w http.ResponseWriter, r *http.Request) {
	var req draftReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, weChatFailure("缺少必要参数"))
		return
	}

	reply, err := s.wechat.AddDraft(r.Context(), req.AccessToken, req.Articles)
	if err != nil {
		s.logger.WithError(err).WithField("articles", len(req.Articles)).Error("wechat draft/add failed")
		writeJSON(w, weChatFailure("添加草稿失败: "+err.Error()))
		return
	}
	writeJSON(w, reply)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	var req draftListReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, weChatFailure("缺少access_token"))
		return
	}
	if req.Count == 0 {
		req.Count = publisher.MaxDraftBatch
	}

	reply, err := s.wechat.BatchGetDrafts(r.Context(), req.AccessToken, publisher.DraftQuery{
		Offset:    req.Offset,
		Count:     req.Count,
		NoContent: req.NoContent,
	})
	if err != nil {
		s.logger.WithError(err).Error("wechat draft/batchget failed")
		writeJSON(w, weChatFailure("获取草稿列表失败: "+err.Error()))
		return
	}
	writeJSON(w, reply)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderReq
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, weChatFailure("缺少markdown内容"))
		return
	}

	out, err := publisher.RenderMarkdown(req.Markdown)
	if err != nil {
		s.logger.WithError(err).Error("markdown render failed")
		writeJSON(w, weChatFailure("排版失败: "+err.Error()))
		return
	}
	writeJSON(w, out)
}

// handleGenerate only reports failure for missing input. Upstream problems
// are absorbed by the agent, which answers with the fallback article.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, aiEnvelope{Success: false, Error: "缺少必要参数"})
		return
	}

	res := s.agent.Generate(r.Context(), req)
	s.logger.WithFields(logrus.Fields{
		"source": res.Source,
		"bytes":  len(res.Content),
	}).Debug("ai generate answered")
	writeJSON(w, aiEnvelope{Success: true, Content: res.Content})
}
