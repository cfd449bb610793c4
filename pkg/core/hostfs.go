/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package core

import (
	"path/filepath"

	"github.com/traas-stack/holoinsight-ps/pkg/util"
)

const (
	hostProc = "/proc"
	hostEtc  = "/etc"
)

var hostfs = util.GetEnvOrDefault("HOSTFS", "/hostfs")

func GetHostfs() string {
	return hostfs
}

// ResolveProcRoot returns the proc root to enumerate.
// When the host filesystem is mounted at GetHostfs() (e.g. running as a daemonset) its /proc is preferred,
// and inHostfs is true so that identities are resolved against the host's /etc as well.
func ResolveProcRoot() (root string, inHostfs bool) {
	if p := filepath.Join(GetHostfs(), hostProc); util.IsDir(p) {
		return p, true
	}
	return hostProc, false
}

// ResolveEtcDir returns the directory containing passwd and group matching ResolveProcRoot.
func ResolveEtcDir(inHostfs bool) string {
	if inHostfs {
		return filepath.Join(GetHostfs(), hostEtc)
	}
	return hostEtc
}
