// Copyright (c) StackSpot. All rights reserved.

package agentchat

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrAuth indicates a credential or token failure against the
	// identity service.
	ErrAuth = errors.New("auth error")

	// ErrAPI indicates a non-auth HTTP failure from the platform.
	ErrAPI = errors.New("api error")

	// ErrUpload indicates a file-upload rejection, either by the platform's
	// form endpoint or by the storage backend.
	ErrUpload = errors.New("upload error")

	// ErrUsage indicates caller misuse of the SDK.
	ErrUsage = errors.New("usage error")

	// ErrStreamConsumed is returned when iterating a streaming answer that
	// has already been drained or closed. Answer streams are forward-only
	// and single-use.
	ErrStreamConsumed = fmt.Errorf("%w: stream already consumed", ErrUsage)
)

// AuthError provides context for identity-service failures.
// Use errors.As to extract it from a wrapped error chain.
// The message never contains credential or token values.
type AuthError struct {
	Realm      string
	StatusCode int
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("auth failed for realm %q (status %d): %s", e.Realm, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auth failed for realm %q: %s", e.Realm, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError provides context for non-auth platform failures. It carries the
// HTTP status and the raw response body so callers can log and act on it.
type APIError struct {
	StatusCode int
	Resource   string
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.Resource, e.Body)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.Resource, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// Upload stages reported in an [UploadError].
const (
	UploadStageForm    = "form"
	UploadStageStorage = "storage"
)

// UploadError provides context for a single file's upload failure,
// attributed to the file's original path and the protocol stage that
// rejected it.
type UploadError struct {
	Path  string
	Stage string
	Err   error
}

func (e *UploadError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("upload of %q failed at %s stage: %v", e.Path, e.Stage, e.Err)
	}
	return fmt.Sprintf("upload of %q failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
