package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	if f := LogFields(context.Background()); f != nil {
		t.Fatalf("fields=%v", f)
	}

	ctx := WithTraceData(context.Background(), &TraceData{RequestID: "req-1"})
	f := LogFields(ctx)
	if len(f) != 2 || f[0] != "request_id" || f[1] != "req-1" {
		t.Fatalf("fields=%v", f)
	}

	ctx = WithTraceData(ctx, &TraceData{RequestID: "req-2", TraceID: "abc"})
	if f := LogFields(ctx); len(f) != 4 || f[3] != "abc" {
		t.Fatalf("fields=%v", f)
	}
}
