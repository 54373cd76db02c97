// Copyright (c) StackSpot. All rights reserved.

package agentchat

import (
	"context"
	"io"
)

// InferenceRequest carries a question to the platform's inference endpoint.
type InferenceRequest struct {
	Question  string         `json:"question"`
	Context   map[string]any `json:"context,omitempty"`
	FileIDs   []string       `json:"file_ids,omitempty"`
	Streaming bool           `json:"streaming"`
}

// InferenceClient is the chat-transport capability: it answers a single
// question against a configured agent. Platform packages implement it.
type InferenceClient interface {
	// Answer sends a non-streaming inference request and returns the
	// complete answer text.
	Answer(ctx context.Context, req *InferenceRequest) (string, error)

	// StreamAnswer sends a streaming inference request and returns the raw
	// chunked answer body. The caller owns the body and must close it.
	StreamAnswer(ctx context.Context, req *InferenceRequest) (io.ReadCloser, error)
}

// FileUploader is the upload capability: it pushes local files to the
// platform's storage and returns handles usable as question context.
type FileUploader interface {
	// UploadFiles attempts every path independently and reports per-file
	// outcomes. The returned error is non-nil only when the batch itself
	// could not run (for example, a cancelled context).
	UploadFiles(ctx context.Context, paths []string) (*UploadResult, error)
}
