// Copyright (c) StackSpot. All rights reserved.

package agentchat

import "time"

// Role identifies the author of a [ChatMessage].
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// ChatMessage is a single conversation turn. Messages are append-only and
// ordered by creation time.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a user-role [ChatMessage] stamped with the current time.
func NewUserMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleUser, Text: text, Timestamp: time.Now()}
}

// NewAgentMessage creates an agent-role [ChatMessage] stamped with the current time.
func NewAgentMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleAgent, Text: text, Timestamp: time.Now()}
}
