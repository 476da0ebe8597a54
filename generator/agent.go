package generator

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Agent 负责调用大模型生成文章，失败时回退到固定模板。
type Agent struct {
	llm      LLMClient
	coverURL string
	logger   *logrus.Logger
}

func NewAgent(llm LLMClient, coverURL string, logger *logrus.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Agent{llm: llm, coverURL: coverURL, logger: logger}, nil
}

// Generate never fails: any upstream problem yields the fallback article,
// reported through Result.Source and Result.Err.
func (a *Agent) Generate(ctx context.Context, req Request) Result {
	start := time.Now()
	raw, err := a.llm.Complete(ctx, Prompt{User: req.Prompt})
	if err == nil {
		var content string
		if content, err = withCover(raw, a.coverURL); err == nil {
			a.logger.WithFields(logrus.Fields{
				"author": req.Author,
				"title":  req.Title,
				"head":   extractTitle(raw),
				"took":   time.Since(start),
			}).Info("article generated")
			return Result{Content: content, Source: SourceLLM}
		}
	}

	a.logger.WithError(err).WithFields(logrus.Fields{
		"author": req.Author,
		"title":  req.Title,
	}).Error("AI生成错误, using fallback article")
	return Result{
		Content: Fallback(req.Author, req.Title, a.coverURL),
		Source:  SourceFallback,
		Err:     err,
	}
}
