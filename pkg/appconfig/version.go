/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package appconfig

import (
	"fmt"
	"runtime"
)

// set by -ldflags "-X github.com/traas-stack/holoinsight-ps/pkg/appconfig.psVersion=..."
var psVersion string
var psBuildTime string
var gitcommit string

func Version() string {
	v := psVersion
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s (commit=%s buildTime=%s %s)", v, gitcommit, psBuildTime, runtime.Version())
}
