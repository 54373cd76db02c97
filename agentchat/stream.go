// Copyright (c) StackSpot. All rights reserved.

package agentchat

import (
	"context"
	"io"
	"strings"
	"sync"
)

// AnswerStream is a lazy, forward-only, single-consumption sequence of answer
// chunks. The full answer is the concatenation of chunks in receipt order.
//
// The stream holds an open network connection for its duration: callers must
// drain it (via [AnswerStream.Next] or [AnswerStream.Text]) or call
// [AnswerStream.Close] to release the connection. Once drained or closed the
// stream is exhausted; further reads fail with [ErrStreamConsumed].
type AnswerStream struct {
	ch        <-chan string
	errCh     <-chan error
	cancel    context.CancelFunc
	closeOnce sync.Once

	consumed bool
	err      error
	full     strings.Builder
	onDone   func(answer string)
}

// NewAnswerStream wraps a chunked response body in an AnswerStream. A reader
// goroutine pulls chunks from body until EOF; body is closed when the
// producer returns. onDone, if non-nil, is invoked with the complete answer
// after a successful full drain.
func NewAnswerStream(ctx context.Context, body io.ReadCloser, onDone func(answer string)) *AnswerStream {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		defer body.Close()
		buf := make([]byte, 4*1024)
		for {
			n, err := body.Read(buf)
			if n > 0 {
				select {
				case ch <- string(buf[:n]):
				case <-ctx.Done():
					errCh <- ctx.Err()
					close(errCh)
					return
				}
			}
			if err == io.EOF {
				close(errCh)
				return
			}
			if err != nil {
				errCh <- err
				close(errCh)
				return
			}
		}
	}()

	return &AnswerStream{
		ch:     ch,
		errCh:  errCh,
		cancel: cancel,
		onDone: onDone,
	}
}

// Next returns the next chunk from the stream. ok is false when the stream is
// exhausted; err is non-nil on failure. Calling Next after the stream has
// been drained or closed returns [ErrStreamConsumed].
func (s *AnswerStream) Next(ctx context.Context) (chunk string, ok bool, err error) {
	if s.consumed {
		return "", false, ErrStreamConsumed
	}
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case c, open := <-s.ch:
		if !open {
			s.consumed = true
			select {
			case e := <-s.errCh:
				s.err = e
			default:
			}
			if s.err == nil && s.onDone != nil {
				s.onDone(s.full.String())
			}
			return "", false, s.err
		}
		s.full.WriteString(c)
		return c, true, nil
	}
}

// Text drains the remaining chunks and returns the complete answer.
func (s *AnswerStream) Text(ctx context.Context) (string, error) {
	for {
		_, ok, err := s.Next(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return s.full.String(), nil
		}
	}
}

// Close abandons the stream and releases the underlying connection.
// Safe to call multiple times, including after a full drain.
func (s *AnswerStream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		// Drain to unblock the producer
		for range s.ch {
		}
		s.consumed = true
	})
	return nil
}
