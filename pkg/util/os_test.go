/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package util

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFileReadonly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status")
	require.NoError(t, os.WriteFile(path, []byte("Name:\tx\n"), 0644))

	f, err := OpenFileReadonly(path)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "Name:\tx\n", string(b))

	_, err = OpenFileReadonly(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.False(t, IsDir(file))
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("HI_PS_TEST_ENV", "")
	assert.Equal(t, "d", GetEnvOrDefault("HI_PS_TEST_ENV", "d"))
	t.Setenv("HI_PS_TEST_ENV", "v")
	assert.Equal(t, "v", GetEnvOrDefault("HI_PS_TEST_ENV", "d"))
}
