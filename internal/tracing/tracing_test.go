// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tombee/brk/internal/config"
)

func TestSetup_None(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{Exporter: config.ExporterNone}, "dev")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_UnknownExporter(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{Exporter: "zipkin"}, "dev")
	assert.ErrorContains(t, err, "unknown exporter type")
	assert.NotNil(t, shutdown)
}

func TestSetup_ConsoleWritesSpans(t *testing.T) {
	defer otel.SetTracerProvider(noop.NewTracerProvider())

	out := filepath.Join(t.TempDir(), "spans.json")
	ctx := context.Background()
	shutdown, err := Setup(ctx, config.TracingConfig{Exporter: config.ExporterConsole, Output: out}, "1.2.3")
	require.NoError(t, err)

	_, span := Tracer().Start(ctx, "brk.create")
	span.SetAttributes(attribute.Int("breakpoint.id", 7))
	End(span, errors.New("boom"))

	require.NoError(t, shutdown(ctx))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "brk.create")
	assert.Contains(t, string(data), "breakpoint.id")
	assert.Contains(t, string(data), "boom")
}

func TestSetup_OTLPHTTP(t *testing.T) {
	defer otel.SetTracerProvider(noop.NewTracerProvider())

	ctx := context.Background()
	shutdown, err := Setup(ctx, config.TracingConfig{
		Exporter: config.ExporterOTLPHTTP,
		Endpoint: "127.0.0.1:1",
		Insecure: true,
	}, "dev")
	require.NoError(t, err)

	// Nothing was recorded, so shutdown never dials the collector.
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, shutdown(shutdownCtx))
}
