/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDebugSwitch(t *testing.T) {
	defer setupZapLogger0(os.Stderr, false)

	buf := &bytes.Buffer{}
	SetupZapLoggerTo(buf, false)
	Debugz("hidden", zap.Int("pid", 1))
	Debugf("hidden %d", 1)
	assert.Equal(t, "", buf.String())
	assert.False(t, IsDebugEnabled())

	SetupZapLoggerTo(buf, true)
	Debugz("shown", zap.Int("pid", 1))
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "debug")
	assert.Contains(t, buf.String(), `"pid": 1`)
	DebugEnabled = false
}

func TestLevels(t *testing.T) {
	defer setupZapLogger0(os.Stderr, false)

	buf := &bytes.Buffer{}
	SetupZapLoggerTo(buf, false)
	Infoz("i")
	Warnf("w %s", "x")
	Errorz("e", zap.String("root", "/proc"))

	out := buf.String()
	assert.Contains(t, out, "info i")
	assert.Contains(t, out, "warn w x")
	assert.Contains(t, out, "error e")
}
