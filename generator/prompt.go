package generator

// Prompt 表示发送给 LLM 的消息。System 为空时只发送一条 user 消息。
type Prompt struct {
	System string
	User   string
}
