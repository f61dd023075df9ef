package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithUserAddsField(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	ctx = WithUser(ctx, "u1")
	l := Ctx(ctx)
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"user_id":"u1"`) || !strings.Contains(out, "hello") {
		t.Fatalf("log line = %s", out)
	}
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	// A bare context must not panic; it yields the global logger.
	l := Ctx(context.Background())
	l.Debug().Msg("no-op")
}
