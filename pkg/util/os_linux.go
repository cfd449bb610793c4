//go:build linux

/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package util

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// OpenFileReadonly opens file without updating its access time.
// O_NOATIME is only permitted to the owner of the file (or CAP_FOWNER), so on EPERM the file is opened normally.
func OpenFileReadonly(file string) (*os.File, error) {
	f, err := os.OpenFile(file, os.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil && errors.Is(err, unix.EPERM) {
		return os.OpenFile(file, os.O_RDONLY, 0)
	}
	return f, err
}
