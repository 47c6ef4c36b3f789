package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of the tutor transcript.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`

	// Timestamp is epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// NewChatMessage creates a message stamped with at.
func NewChatMessage(role Role, text string, at time.Time) ChatMessage {
	return ChatMessage{Role: role, Text: text, Timestamp: at.UnixMilli()}
}

// Fixed tutor texts shown to the user.
const (
	// ChatGreeting seeds every new transcript.
	ChatGreeting = "你好！我是你的 AI 学习助手。点击左侧的**关键概念**，或者直接向我提问，我可以为你深入解释任何细节。"

	// ChatFallback replaces the reply when the chat collaborator fails.
	ChatFallback = "抱歉，连接 AI 时出现错误，请稍后再试。"

	// ChatEmptyReply replaces an empty reply from the chat collaborator.
	ChatEmptyReply = "无法生成回复。"

	// GenerationFailedMessage is the user-visible search failure text.
	GenerationFailedMessage = "解释生成失败。请检查网络或尝试更简单的术语。"

	// DashboardContext is the chat context when no explanation is loaded.
	DashboardContext = "用户正在浏览仪表板。"
)
