// Copyright (c) StackSpot. All rights reserved.

package stackspot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stackspot/agent-sdk-go/agentchat"
)

// uploadFormRequest asks the platform for a presigned storage form.
type uploadFormRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// uploadForm is the platform's presigned response. It is single-use and
// time-limited: consumed once for the storage transfer, then discarded.
type uploadForm struct {
	UploadURL    string            `json:"upload_url"`
	Fields       map[string]string `json:"fields"`
	FileHandleID string            `json:"file_handle_id"`
}

// UploadFiles uploads each path through the three-hop protocol: request a
// presigned form, push the bytes to object storage, collect the file handle.
// Files are processed independently with bounded concurrency; a failure on
// one file never aborts the others. Per-file outcomes land in the result,
// ordered by completion, correlate by path.
func (c *Client) UploadFiles(ctx context.Context, paths []string) (*agentchat.UploadResult, error) {
	result := &agentchat.UploadResult{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.uploadConcurrency)

	for _, path := range paths {
		g.Go(func() error {
			ref, err := c.uploadFile(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, agentchat.UploadFailure{Path: path, Err: err})
				return nil
			}
			result.Refs = append(result.Refs, *ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "batch upload finished",
		"requested", len(paths),
		"succeeded", len(result.Refs),
		"failed", len(result.Failures),
	)
	return result, nil
}

func (c *Client) uploadFile(ctx context.Context, path string) (*agentchat.UploadedFileRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &agentchat.UploadError{
			Path: path,
			Err:  fmt.Errorf("%w: %w", agentchat.ErrUpload, err),
		}
	}

	filename := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	form, err := c.requestUploadForm(ctx, filename, contentType, int64(len(data)))
	if err != nil {
		return nil, &agentchat.UploadError{
			Path:  path,
			Stage: agentchat.UploadStageForm,
			Err:   fmt.Errorf("%w: %w", agentchat.ErrUpload, err),
		}
	}

	if err := c.postToStorage(ctx, form, filename, contentType, data); err != nil {
		return nil, &agentchat.UploadError{
			Path:  path,
			Stage: agentchat.UploadStageStorage,
			Err:   fmt.Errorf("%w: %w", agentchat.ErrUpload, err),
		}
	}

	c.logger.DebugContext(ctx, "file uploaded",
		"path", path,
		"file_id", form.FileHandleID,
		"size", len(data),
	)
	return &agentchat.UploadedFileRef{ID: form.FileHandleID, Path: path}, nil
}

// requestUploadForm asks the platform for a presigned form. Platform-side
// rejections (unsupported type, size over limit) come back as 4xx and are
// not retried by the transport.
func (c *Client) requestUploadForm(ctx context.Context, filename, contentType string, size int64) (*uploadForm, error) {
	body, err := c.tp.doJSON(ctx, http.MethodPost, c.uploadFormURL, &uploadFormRequest{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	})
	if err != nil {
		return nil, err
	}

	var form uploadForm
	if err := unmarshalResponse(body, &form); err != nil {
		return nil, err
	}
	if form.UploadURL == "" || form.FileHandleID == "" {
		return nil, fmt.Errorf("incomplete upload form in response")
	}
	return &form, nil
}

// postToStorage pushes the file to the presigned endpoint as a multipart
// POST, forwarding the presigned fields verbatim before the file part.
// Transient failures are retried within the client's retry bounds; a 4xx
// from storage is definitive because the form is single-use.
func (c *Client) postToStorage(ctx context.Context, form *uploadForm, filename, contentType string, data []byte) error {
	var lastErr error
	delay := c.retry.InitialInterval

	for attempt := 0; ; attempt++ {
		body, boundary, err := buildStorageBody(form, filename, contentType, data)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, form.UploadURL, body)
		if err != nil {
			return fmt.Errorf("create storage request: %w", err)
		}
		req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		latency := time.Since(start)

		switch {
		case err != nil:
			lastErr = fmt.Errorf("storage transfer: %w", err)
			c.logger.WarnContext(ctx, "storage transfer failed",
				"error", err,
				"latency", latency,
			)

		case resp.StatusCode < 400:
			// S3-style endpoints answer 2xx or a 3xx redirect on success.
			drainBody(resp)
			c.logger.DebugContext(ctx, "storage transfer completed",
				"status", resp.StatusCode,
				"latency", latency,
			)
			return nil

		case resp.StatusCode >= 500:
			respBody := drainBody(resp)
			lastErr = fmt.Errorf("storage returned status %d: %s", resp.StatusCode, truncate(respBody, 512))
			c.logger.WarnContext(ctx, "storage transfer failed",
				"status", resp.StatusCode,
				"latency", latency,
			)

		default:
			// Definitive rejection, e.g. an expired signature.
			respBody := drainBody(resp)
			return fmt.Errorf("storage rejected upload with status %d: %s", resp.StatusCode, truncate(respBody, 512))
		}

		if attempt >= c.retry.MaxRetries {
			return lastErr
		}
		if err := sleepContext(ctx, delay); err != nil {
			return err
		}
		delay = c.retry.next(delay)
	}
}

// buildStorageBody assembles the multipart payload: presigned fields first,
// then the file part, which S3-compatible endpoints require to come last.
func buildStorageBody(form *uploadForm, filename, contentType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write form field: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}

	return &buf, w.Boundary(), nil
}
