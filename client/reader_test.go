package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

type slowReader struct{}

func (slowReader) Read(p []byte) (int, error) {
	time.Sleep(time.Second)
	return 0, io.EOF
}

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText(context.Background(), strings.NewReader("Read this aloud."), time.Second)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "Read this aloud." {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractTextBinaryIsParseFailure(t *testing.T) {
	_, err := ExtractText(context.Background(), strings.NewReader("PK\x03\x04\x00binary"), time.Second)
	if !errors.Is(err, ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
}

func TestExtractTextEmptyIsParseFailure(t *testing.T) {
	_, err := ExtractText(context.Background(), strings.NewReader(""), time.Second)
	if !errors.Is(err, ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
}

func TestExtractTextTimesOut(t *testing.T) {
	start := time.Now()
	_, err := ExtractText(context.Background(), slowReader{}, 30*time.Millisecond)
	if !errors.Is(err, ErrParseTimeout) {
		t.Fatalf("expected ErrParseTimeout, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("timeout guard did not fire promptly")
	}
}
