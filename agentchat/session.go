// Copyright (c) StackSpot. All rights reserved.

package agentchat

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds conversation identity, ordered message history, and the
// free-form context mapping carried alongside each question.
//
// History is append-only: messages are never rewritten in place. A session
// assumes a single writer at a time; the internal mutex only makes concurrent
// readers safe, it does not order concurrent Append calls.
type Session struct {
	id string

	mu       sync.Mutex
	messages []ChatMessage
	context  map[string]any
}

// NewSession creates a Session with a generated globally unique ID.
func NewSession() *Session {
	return &Session{
		id:      uuid.NewString(),
		context: make(map[string]any),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Append adds a message with the given role and text to the history.
func (s *Session) Append(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch role {
	case RoleUser:
		s.messages = append(s.messages, NewUserMessage(text))
	default:
		s.messages = append(s.messages, NewAgentMessage(text))
	}
}

// History returns a copy of the ordered message history.
func (s *Session) History() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]ChatMessage, len(s.messages))
	copy(cp, s.messages)
	return cp
}

// Context returns a copy of the session's context mapping.
func (s *Session) Context() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]any, len(s.context))
	for k, v := range s.context {
		cp[k] = v
	}
	return cp
}

// SetContext merges the given keys into the session context.
// Existing keys are overwritten.
func (s *Session) SetContext(ctx map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range ctx {
		s.context[k] = v
	}
}

// Clear drops the message history while keeping the session ID and context.
// Useful for starting a fresh conversation in the same session.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
