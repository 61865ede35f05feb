package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// Reader errors distinguish "parsing failed" from "parsing too slow"; both
// are dismissible, feature-local conditions.
var (
	ErrParseFailed  = errors.New("could not extract text from document")
	ErrParseTimeout = errors.New("document parsing timed out")
)

// DefaultParseTimeout is the fixed guard the reader page applies before
// declaring a document too slow to parse.
const DefaultParseTimeout = 10 * time.Second

// ExtractText pulls plain text out of a document for the read-aloud page.
// The work runs under the timeout guard so a hung source cannot wedge the
// page; binary content is a parse failure, not a timeout.
func ExtractText(ctx context.Context, r io.Reader, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultParseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := extract(r)
		ch <- result{text: text, err: err}
	}()

	select {
	case res := <-ch:
		return res.text, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrParseTimeout
		}
		return "", ctx.Err()
	}
}

func extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if len(data) == 0 {
		return "", ErrParseFailed
	}
	// NUL bytes or invalid UTF-8 mean a binary format this reader
	// does not understand
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", ErrParseFailed
	}
	return string(data), nil
}
