// Copyright (c) StackSpot. All rights reserved.

package agentchat

import (
	"context"
	"fmt"
	"log/slog"
)

// AgentChat is the top-level conversational surface for a single agent. It
// composes an [InferenceClient] with an optional [FileUploader] and owns one
// [Session] for history and accumulated context.
//
// Create one with [New] and functional options:
//
//	chat := agentchat.New(client,
//	    agentchat.WithLogger(logger),
//	)
//	answer, err := chat.Ask(ctx, "Summarize", agentchat.WithFiles("report.pdf"))
type AgentChat struct {
	inference InferenceClient
	uploader  FileUploader
	session   *Session
	logger    *slog.Logger
}

// Option configures an [AgentChat] via [New].
type Option func(*AgentChat)

// WithUploader sets the file-upload collaborator. When the inference client
// itself implements [FileUploader] this is unnecessary; [New] wires it.
func WithUploader(u FileUploader) Option {
	return func(c *AgentChat) { c.uploader = u }
}

// WithSession attaches an existing session instead of generating a fresh one.
func WithSession(s *Session) Option {
	return func(c *AgentChat) { c.session = s }
}

// WithLogger sets the logger used for chat-level events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *AgentChat) { c.logger = logger }
}

// New creates an AgentChat backed by the given inference client. If the
// client also implements [FileUploader] and no uploader option is given,
// it serves as the uploader too.
func New(inference InferenceClient, opts ...Option) *AgentChat {
	c := &AgentChat{inference: inference}
	for _, opt := range opts {
		opt(c)
	}
	if c.uploader == nil {
		if u, ok := inference.(FileUploader); ok {
			c.uploader = u
		}
	}
	if c.session == nil {
		c.session = NewSession()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Session returns the chat's session.
func (c *AgentChat) Session() *Session { return c.session }

// AskOption configures a single [AgentChat.Ask] or [AgentChat.AskStream] call.
type AskOption func(*askConfig)

type askConfig struct {
	files        []string
	context      map[string]any
	allOrNothing bool
}

// WithFiles uploads the given local files and attaches their handles to the
// question.
func WithFiles(paths ...string) AskOption {
	return func(c *askConfig) { c.files = append(c.files, paths...) }
}

// WithContext carries extra key-value context for this call only. On key
// conflict the per-call value wins over the session context.
func WithContext(ctx map[string]any) AskOption {
	return func(c *askConfig) { c.context = ctx }
}

// WithAllOrNothing makes any file-upload failure abort the call before the
// question is sent. The default is partial-failure: the question is sent with
// the handles that did succeed.
func WithAllOrNothing() AskOption {
	return func(c *askConfig) { c.allOrNothing = true }
}

// Ask sends a question to the agent and returns the complete answer. On
// success both the question and the answer are appended to the session
// history, in that order.
func (c *AgentChat) Ask(ctx context.Context, question string, opts ...AskOption) (string, error) {
	req, err := c.prepareRequest(ctx, question, opts)
	if err != nil {
		return "", err
	}

	answer, err := c.inference.Answer(ctx, req)
	if err != nil {
		return "", err
	}

	c.session.Append(RoleUser, question)
	c.session.Append(RoleAgent, answer)
	return answer, nil
}

// AskStream sends a question and returns a lazy, single-consumption stream of
// answer chunks. The question is appended to the session history immediately;
// the answer is appended once the stream is fully drained. The caller must
// drain or close the stream to release the underlying connection.
func (c *AgentChat) AskStream(ctx context.Context, question string, opts ...AskOption) (*AnswerStream, error) {
	req, err := c.prepareRequest(ctx, question, opts)
	if err != nil {
		return nil, err
	}
	req.Streaming = true

	body, err := c.inference.StreamAnswer(ctx, req)
	if err != nil {
		return nil, err
	}

	c.session.Append(RoleUser, question)
	return NewAnswerStream(ctx, body, func(answer string) {
		c.session.Append(RoleAgent, answer)
	}), nil
}

// prepareRequest uploads any requested files and builds the inference
// request from the merged context and collected file handles.
func (c *AgentChat) prepareRequest(ctx context.Context, question string, opts []AskOption) (*InferenceRequest, error) {
	cfg := &askConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var fileIDs []string
	if len(cfg.files) > 0 {
		if c.uploader == nil {
			return nil, fmt.Errorf("%w: no file uploader configured", ErrUsage)
		}
		result, err := c.uploader.UploadFiles(ctx, cfg.files)
		if err != nil {
			return nil, err
		}
		if len(result.Failures) > 0 {
			for _, f := range result.Failures {
				c.logger.WarnContext(ctx, "file upload failed",
					"path", f.Path,
					"error", f.Err,
				)
			}
			if cfg.allOrNothing {
				return nil, fmt.Errorf("upload failed for %d of %d files: %w",
					len(result.Failures), len(cfg.files), result.Failures[0].Err)
			}
			if result.AllFailed() {
				return nil, fmt.Errorf("no file succeeded out of %d: %w",
					len(cfg.files), result.Failures[0].Err)
			}
		}
		fileIDs = result.FileIDs()
	}

	// Session context overlaid by per-call context; the call wins.
	merged := c.session.Context()
	for k, v := range cfg.context {
		merged[k] = v
	}
	if len(merged) == 0 {
		merged = nil
	}

	return &InferenceRequest{
		Question: question,
		Context:  merged,
		FileIDs:  fileIDs,
	}, nil
}
