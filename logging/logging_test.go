package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/filbar/swapper/logging"
	"github.com/stretchr/testify/assert"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.ContextHandler{Handler: slog.NewTextHandler(&buf, nil)})

	ctx := logging.PackageCtx("keylog")
	ctx = logging.AppendCtx(ctx, slog.String("device", "/dev/ttyACM0"))

	logger.InfoContext(ctx, "opened")

	assert.Contains(t, buf.String(), "package=keylog")
	assert.Contains(t, buf.String(), "device=/dev/ttyACM0")

	buf.Reset()
	logger.InfoContext(context.Background(), "plain")

	assert.NotContains(t, buf.String(), "package=")
}

func TestAppendCtxDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.ContextHandler{Handler: slog.NewTextHandler(&buf, nil)})

	parent := logging.PackageCtx("db")
	_ = logging.AppendCtx(parent, slog.String("child", "yes"))

	logger.InfoContext(parent, "parent only")

	assert.NotContains(t, buf.String(), "child=yes")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := logging.NewLogger(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()

	verbose := logging.NewLogger(&buf, true)
	verbose.Debug("visible now")

	assert.Contains(t, buf.String(), "visible now")
}
