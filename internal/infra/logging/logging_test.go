//go:build !integration

package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"translator-booking/internal/infra/logging"
)

func TestWithContextFields(t *testing.T) {
	t.Run("stamped ids appear in every event", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)

		ctx := logging.WithTraceID(context.Background(), "tr-abc")
		ctx = logging.WithJobID(ctx, "01JOB")
		ctx = logging.WithUserID(ctx, "u-7")

		logging.With(ctx, &base).Info().Msg("claim settled")

		line := buf.String()
		for _, want := range []string{`"trace_id":"tr-abc"`, `"job_id":"01JOB"`, `"user_id":"u-7"`} {
			if !strings.Contains(line, want) {
				t.Fatalf("log line %q is missing %s", line, want)
			}
		}
	})

	t.Run("bare context adds nothing", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)

		logging.With(context.Background(), &base).Info().Msg("tick")

		line := buf.String()
		for _, field := range []string{"trace_id", "job_id", "user_id"} {
			if strings.Contains(line, field) {
				t.Fatalf("log line %q has an unexpected %s field", line, field)
			}
		}
	})
}
