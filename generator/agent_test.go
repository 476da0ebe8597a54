package generator

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCover = "https://img.test/cover.jpg"

type stubLLM struct {
	out    string
	err    error
	prompt Prompt
}

func (s *stubLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.prompt = p
	return s.out, s.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestAgent(t *testing.T, llm LLMClient) *Agent {
	t.Helper()
	a, err := NewAgent(llm, testCover, quietLogger())
	require.NoError(t, err)
	return a
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(nil, testCover, nil)
	assert.Error(t, err)
}

func TestGeneratePrependsCover(t *testing.T) {
	llm := &stubLLM{out: "# 标题\n\n正文"}
	res := newTestAgent(t, llm).Generate(context.Background(), Request{Prompt: "写一篇", Author: "李白", Title: "静夜思"})

	assert.Equal(t, SourceLLM, res.Source)
	assert.NoError(t, res.Err)
	assert.Equal(t, "![封面图片]("+testCover+")\n\n# 标题\n\n正文", res.Content)
	assert.Equal(t, Prompt{User: "写一篇"}, llm.prompt)
}

func TestGenerateFallsBack(t *testing.T) {
	cases := map[string]*stubLLM{
		"upstream error": {err: errors.New("dial tcp: timeout")},
		"empty output":   {out: "  \n"},
	}
	for name, llm := range cases {
		t.Run(name, func(t *testing.T) {
			res := newTestAgent(t, llm).Generate(context.Background(), Request{Prompt: "x", Author: "李白", Title: "静夜思"})

			assert.Equal(t, SourceFallback, res.Source)
			assert.Error(t, res.Err)
			assert.Equal(t, Fallback("李白", "静夜思", testCover), res.Content)
		})
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	res := newTestAgent(t, NoKeyLLM{Provider: "qwen"}).Generate(context.Background(), Request{Prompt: "x", Author: "杜甫", Title: "春望"})
	assert.Equal(t, SourceFallback, res.Source)
	assert.ErrorIs(t, res.Err, ErrNoAPIKey)
	assert.Contains(t, res.Content, "杜甫")
}

func TestFallbackDeterministic(t *testing.T) {
	a := Fallback("李白", "静夜思", testCover)
	b := Fallback("李白", "静夜思", testCover)
	assert.Equal(t, a, b)

	assert.True(t, strings.HasPrefix(a, "# 千古绝唱！李白《静夜思》背后的深意，读懂的人都哭了\n\n![封面图片]("+testCover+")"))
	for _, heading := range []string{
		"## 📖 诗词原文",
		"## 🌟 创作背景与时代意义",
		"## 🎯 逐句深度赏析",
		"## 🌸 重点词语与意象解析",
		"## 👨‍🎨 诗人生平与创作风格",
		"## 🎨 艺术手法与表现技巧",
		"## 💭 情感主题与现代意义",
		"## 结语",
	} {
		assert.Contains(t, a, heading)
	}
	assert.Contains(t, a, "![配图1]("+fallbackImage1+")")
	assert.Contains(t, a, "![配图2]("+fallbackImage2+")")
	assert.Contains(t, a, "![配图3]("+fallbackImage3+")")
	assert.Contains(t, a, "**《静夜思》**")
	assert.NotContains(t, a, "{author}")
	assert.NotContains(t, a, "{title}")
	assert.True(t, strings.HasSuffix(a, "**关注「最美诗词」，每天为你推送最美的诗词赏析！**"))

	assert.NotEqual(t, a, Fallback("杜甫", "静夜思", testCover))
}

func TestFallbackDoesNotExpandPlaceholdersInInput(t *testing.T) {
	out := Fallback("{title}", "月", testCover)
	assert.Contains(t, out, "# 千古绝唱！{title}《月》")
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "月下独酌", extractTitle("![封面](x)\n\n# 月下独酌 \n\n正文"))
	assert.Equal(t, "", extractTitle("## 二级标题\n正文"))
	assert.Equal(t, "", extractTitle(""))
}
