/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package fs2

import (
	"github.com/spf13/afero"
	"github.com/traas-stack/holoinsight-ps/pkg/util"
)

type (
	// readonlyOsFs is the host filesystem, read only, opening files with util.OpenFileReadonly.
	readonlyOsFs struct {
		afero.Fs
	}
)

// NewReadonlyOsFs returns a read only afero.Fs over the host filesystem that does not touch access times.
func NewReadonlyOsFs() afero.Fs {
	return &readonlyOsFs{Fs: afero.NewReadOnlyFs(afero.NewOsFs())}
}

func (fs *readonlyOsFs) Open(name string) (afero.File, error) {
	f, err := util.OpenFileReadonly(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (fs *readonlyOsFs) Name() string {
	return "ReadonlyOsFs"
}
