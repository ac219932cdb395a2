package requestctx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Fatalf("RequestIDFromContext() = %q, want %q", got, "req-123")
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("RequestIDFromContext() = %q, want empty", got)
	}
}

func TestRequestIDNilContext(t *testing.T) {
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("RequestIDFromContext(nil) = %q, want empty", got)
	}
	ctx := WithRequestID(nil, "req-456")
	if got := RequestIDFromContext(ctx); got != "req-456" {
		t.Fatalf("RequestIDFromContext() = %q, want %q", got, "req-456")
	}
}
