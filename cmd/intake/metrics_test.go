package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intake "github.com/vivaneiona/genkit-intake"
)

func TestLogMetrics(t *testing.T) {
	metrics, reg, err := newMetrics()
	require.NoError(t, err)

	stub := &intake.StubCompleter{Replies: map[string]string{
		"basic_info": `{"name":{"full_name":"Jane Roe"}}`,
	}}
	x, err := intake.New(stub, intake.TagPrompts())
	require.NoError(t, err)

	p, err := x.ExtractRecord(context.Background(), "Jane Roe", intake.WithMetrics(metrics))
	require.NoError(t, err)
	require.NotNil(t, p)

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logMetrics(log, reg)

	out := buf.String()
	assert.Contains(t, out, "metric=intake_records_total outcome=record value=1")
	assert.Contains(t, out, "metric=intake_section_calls_total outcome=ok section=basic_info value=1")
	assert.Contains(t, out, "metric=intake_section_duration_seconds section=relationships count=1")
}

func TestLogMetrics_SilentAboveDebug(t *testing.T) {
	_, reg, err := newMetrics()
	require.NoError(t, err)

	var buf bytes.Buffer
	logMetrics(slog.New(slog.NewTextHandler(&buf, nil)), reg)
	assert.Empty(t, buf.String())
}
