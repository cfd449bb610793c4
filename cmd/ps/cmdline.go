/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package main

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/traas-stack/holoinsight-ps/pkg/logger"
	"github.com/traas-stack/holoinsight-ps/pkg/printer"
	"github.com/traas-stack/holoinsight-ps/pkg/procfs"
	"go.uber.org/zap"
)

// newCmdlineFunc reads command lines with gopsutil. gopsutil locates proc through HOST_PROC.
func newCmdlineFunc(procRoot string) printer.CmdlineFunc {
	if procRoot != procfs.DefaultRoot {
		os.Setenv("HOST_PROC", procRoot)
	}
	return func(pid uint64) string {
		p, err := process.NewProcess(int32(pid))
		if err != nil {
			logger.Debugz("[cmdline] process gone", zap.Uint64("pid", pid), zap.Error(err))
			return ""
		}
		cmdline, err := p.Cmdline()
		if err != nil {
			logger.Debugz("[cmdline] read error", zap.Uint64("pid", pid), zap.Error(err))
			return ""
		}
		return cmdline
	}
}
