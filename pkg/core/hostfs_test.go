/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProcRoot(t *testing.T) {
	bak := hostfs
	defer func() { hostfs = bak }()

	hostfs = t.TempDir()
	root, inHostfs := ResolveProcRoot()
	assert.Equal(t, "/proc", root)
	assert.False(t, inHostfs)
	assert.Equal(t, "/etc", ResolveEtcDir(inHostfs))

	require.NoError(t, os.MkdirAll(filepath.Join(hostfs, "proc"), 0755))
	root, inHostfs = ResolveProcRoot()
	assert.Equal(t, filepath.Join(hostfs, "proc"), root)
	assert.True(t, inHostfs)
	assert.Equal(t, filepath.Join(hostfs, "etc"), ResolveEtcDir(inHostfs))
}
