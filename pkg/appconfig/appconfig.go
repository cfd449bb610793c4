/*
 * Copyright 2022 Holoinsight Project Authors. Licensed under Apache-2.0.
 */

// Package appconfig holds the application level configuration. It is set up first, so keep it free of
// dependencies on business packages.
package appconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/traas-stack/holoinsight-ps/pkg/core"
	"gopkg.in/yaml.v3"
)

const (
	IdentitySourceSystem = "system"
	IdentitySourceFiles  = "files"

	OutputFormatTable = "table"
	OutputFormatPlain = "plain"
	OutputFormatJson  = "json"
)

var (
	StdPsConfig = PsConfig{}

	// searched in order when no config path is given; missing files are ignored
	defaultConfigFiles = []string{"ps.yaml", "conf/ps.yaml", "ps.toml", "conf/ps.toml"}
)

type (
	PsConfig struct {
		Proc     ProcConfig     `json:"proc" yaml:"proc" toml:"proc"`
		Identity IdentityConfig `json:"identity" yaml:"identity" toml:"identity"`
		Output   OutputConfig   `json:"output" yaml:"output" toml:"output"`
		Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
	}
	ProcConfig struct {
		// Root is the process-information root. Defaults to $HOSTFS/proc when mounted, otherwise /proc.
		Root string `json:"root" yaml:"root" toml:"root"`
	}
	IdentityConfig struct {
		// Source is 'system' (host user database) or 'files' (passwd/group under EtcDir)
		Source string `json:"source" yaml:"source" toml:"source"`
		EtcDir string `json:"etcDir" yaml:"etcDir" toml:"etcDir"`
		// Strict drops processes whose ids cannot be resolved
		Strict bool `json:"strict" yaml:"strict" toml:"strict"`
	}
	OutputConfig struct {
		// table plain json
		Format string `json:"format" yaml:"format" toml:"format"`
		Long   bool   `json:"long" yaml:"long" toml:"long"`
	}
	LogConfig struct {
		Debug bool `json:"debug" yaml:"debug" toml:"debug"`
		Json  bool `json:"json" yaml:"json" toml:"json"`
	}
)

// SetupAppConfig loads StdPsConfig from path (or the default locations when path is empty) and the environment.
func SetupAppConfig(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	StdPsConfig = *cfg
	return nil
}

// Load reads a config file, applies HI_PS_* env overrides and fills defaults.
// An explicit path must exist; default locations are optional.
func Load(path string) (*PsConfig, error) {
	cfg := &PsConfig{}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	} else {
		for _, p := range defaultConfigFiles {
			err := loadFile(p, cfg)
			if err == nil {
				break
			}
			if !os.IsNotExist(errors.Cause(err)) {
				return nil, err
			}
		}
	}

	cfg.loadEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *PsConfig) error {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config path=[%s]", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(fileBytes, cfg)
	default:
		err = yaml.Unmarshal(fileBytes, cfg)
	}
	if err != nil {
		return errors.Wrapf(err, "parse config path=[%s]", path)
	}
	return nil
}

func (c *PsConfig) loadEnv() {
	if s := os.Getenv("HI_PS_PROC_ROOT"); s != "" {
		c.Proc.Root = s
	}
	if s := os.Getenv("HI_PS_IDENTITY_SOURCE"); s != "" {
		c.Identity.Source = s
	}
	if s := os.Getenv("HI_PS_IDENTITY_ETC"); s != "" {
		c.Identity.EtcDir = s
	}
	if s := os.Getenv("HI_PS_IDENTITY_STRICT"); s != "" {
		c.Identity.Strict = cast.ToBool(s)
	}
	if s := os.Getenv("HI_PS_OUTPUT_FORMAT"); s != "" {
		c.Output.Format = s
	}
	if s := os.Getenv("HI_PS_OUTPUT_LONG"); s != "" {
		c.Output.Long = cast.ToBool(s)
	}
	if s := os.Getenv("HI_PS_DEBUG"); s != "" {
		c.Log.Debug = cast.ToBool(s)
	}
}

// ApplyDefaults fills empty fields. Reading a mounted host filesystem implies resolving ids with its files.
func (c *PsConfig) ApplyDefaults() {
	inHostfs := false
	if c.Proc.Root == "" {
		c.Proc.Root, inHostfs = core.ResolveProcRoot()
	}
	if c.Identity.Source == "" {
		if inHostfs {
			c.Identity.Source = IdentitySourceFiles
		} else {
			c.Identity.Source = IdentitySourceSystem
		}
	}
	if c.Identity.EtcDir == "" {
		c.Identity.EtcDir = core.ResolveEtcDir(inHostfs)
	}
	if c.Output.Format == "" {
		c.Output.Format = OutputFormatTable
	}
}

func (c *PsConfig) Validate() error {
	switch c.Identity.Source {
	case IdentitySourceSystem, IdentitySourceFiles:
	default:
		return errors.Errorf("invalid identity source [%s]", c.Identity.Source)
	}
	switch c.Output.Format {
	case OutputFormatTable, OutputFormatPlain, OutputFormatJson:
	default:
		return errors.Errorf("invalid output format [%s]", c.Output.Format)
	}
	return nil
}
