/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

package main

import (
	"github.com/spf13/cobra"
	"github.com/traas-stack/holoinsight-ps/pkg/appconfig"
	"github.com/traas-stack/holoinsight-ps/pkg/logger"
	"github.com/traas-stack/holoinsight-ps/pkg/printer"
	"github.com/traas-stack/holoinsight-ps/pkg/procfs"
	"github.com/traas-stack/holoinsight-ps/pkg/util"
	"github.com/traas-stack/holoinsight-ps/pkg/util/fs2"
	"go.uber.org/zap"
)

type (
	rootFlags struct {
		config         string
		procRoot       string
		format         string
		identitySource string
		etcDir         string
		long           bool
		strict         bool
		debug          bool
	}
)

func newRootCommand() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "holoinsight-ps",
		Short: "List running processes with their resolved users and groups",
		Long: `holoinsight-ps takes one snapshot of the process-information root (/proc, or $HOSTFS/proc when the
host filesystem is mounted), reads the Uid and Gid lines of every process status and prints the
resolved user and group names.`,
		Version:       appconfig.Version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.config, "config", "", "Path to a yaml or toml config file (defaults to ps.yaml, conf/ps.yaml, ps.toml, conf/ps.toml)")
	flags.StringVar(&f.procRoot, "proc-root", "", "Process-information root to enumerate")
	flags.StringVarP(&f.format, "format", "o", "", "Output format: table, plain or json")
	flags.StringVar(&f.identitySource, "identity-source", "", "Where to resolve ids: system or files")
	flags.StringVar(&f.etcDir, "etc-dir", "", "Directory containing passwd and group when identity source is files")
	flags.BoolVarP(&f.long, "long", "l", false, "Show real user/group and command line")
	flags.BoolVar(&f.strict, "strict", false, "Omit processes whose user or group cannot be resolved")
	flags.BoolVar(&f.debug, "debug", false, "Enable debug logging to stderr")
	return cmd
}

func run(cmd *cobra.Command, f *rootFlags) error {
	if err := appconfig.SetupAppConfig(f.config); err != nil {
		return err
	}
	cfg := &appconfig.StdPsConfig
	if err := applyFlags(cmd, f, cfg); err != nil {
		return err
	}

	logger.SetupZapLogger(cfg.Log.Debug, cfg.Log.Json)
	logger.Debugz("[bootstrap] config", zap.Any("config", cfg))
	if !util.IsLinux() {
		logger.Warnz("[bootstrap] process status records are only provided by linux", zap.String("root", cfg.Proc.Root))
	}

	e := procfs.NewEnumerator(procfs.Options{
		Fs:     fs2.NewReadonlyOsFs(),
		Root:   cfg.Proc.Root,
		Lookup: newIdentityLookup(cfg),
		Strict: cfg.Identity.Strict,
	})
	records, err := e.Enumerate()
	if err != nil {
		return err
	}
	logger.Debugz("[bootstrap] enumerated", zap.Int("records", len(records)),
		zap.Int64("identityLookups", e.Resolver().LookupCount()))

	var cmdline printer.CmdlineFunc
	if cfg.Output.Long {
		cmdline = newCmdlineFunc(cfg.Proc.Root)
	}
	return printer.New(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.Long, cmdline).Print(records)
}

// applyFlags overrides the loaded config with the flags given on the command line.
func applyFlags(cmd *cobra.Command, f *rootFlags, cfg *appconfig.PsConfig) error {
	flags := cmd.Flags()
	if flags.Changed("proc-root") {
		cfg.Proc.Root = f.procRoot
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("identity-source") {
		cfg.Identity.Source = f.identitySource
	}
	if flags.Changed("etc-dir") {
		cfg.Identity.EtcDir = f.etcDir
	}
	if flags.Changed("long") {
		cfg.Output.Long = f.long
	}
	if flags.Changed("strict") {
		cfg.Identity.Strict = f.strict
	}
	if flags.Changed("debug") {
		cfg.Log.Debug = f.debug
	}
	return cfg.Validate()
}

func newIdentityLookup(cfg *appconfig.PsConfig) procfs.IdentityLookup {
	if cfg.Identity.Source == appconfig.IdentitySourceFiles {
		return procfs.NewFileLookup(fs2.NewReadonlyOsFs(), cfg.Identity.EtcDir)
	}
	return procfs.SystemLookup{}
}
