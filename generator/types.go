package generator

// Request 是一次文章生成请求，三项均为必填。
type Request struct {
	Prompt string `json:"prompt" validate:"required"`
	Author string `json:"author" validate:"required"`
	Title  string `json:"title" validate:"required"`
}

// Source tells where an article came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Result is the outcome of Agent.Generate. Content is never empty.
type Result struct {
	Content string
	Source  Source
	// Err is the upstream failure that triggered the fallback, if any.
	Err error
}
