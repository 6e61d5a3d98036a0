// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/walteh/ampysync/pkg/stage"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Defaults mirror the project layout the tool was built for
const (
	DefaultPort           = "/dev/tty.usbserial-210"
	DefaultTool           = "ampy"
	DefaultSourceDir      = "."
	DefaultStageDir       = "build"
	DefaultTargetDir      = "/"
	DefaultRuntimeVersion = "3.11"
	DefaultScriptExt      = ".py"
	DefaultToolDirFormat  = "~/Library/Python/%s/bin"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Port           string `json:"port" yaml:"port"`                                           // Serial port of the board
	Baud           int    `json:"baud,omitempty" yaml:"baud,omitempty"`                       // Optional baud rate passed to the tool
	Tool           string `json:"tool,omitempty" yaml:"tool,omitempty"`                       // Device management tool
	ToolDir        string `json:"tool_dir,omitempty" yaml:"tool_dir,omitempty"`               // Directory prepended to PATH
	RuntimeVersion string `json:"runtime_version,omitempty" yaml:"runtime_version,omitempty"` // Used to build the default ToolDir

	SourceDir string `json:"source_dir,omitempty" yaml:"source_dir,omitempty"` // Project root to stage from
	StageDir  string `json:"stage_dir,omitempty" yaml:"stage_dir,omitempty"`   // Staging directory, uploaded to the board
	TargetDir string `json:"target_dir,omitempty" yaml:"target_dir,omitempty"` // Directory on the board
	ScriptExt string `json:"script_ext,omitempty" yaml:"script_ext,omitempty"` // Extension of files to strip

	NoStripPatterns []string `json:"no_strip_patterns" yaml:"no_strip_patterns"` // Scripts copied with comments intact
	ExcludeFiles    []string `json:"exclude_files" yaml:"exclude_files"`         // Files left out of the stage
	ExcludeDirs     []string `json:"exclude_dirs" yaml:"exclude_dirs"`           // Directories never walked
	EssentialFiles  []string `json:"essential_files" yaml:"essential_files"`     // Board entries never erased
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{Port: DefaultPort}
	cfg.setDefaults()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate fills unset fields with defaults and checks the result
func (cfg *Config) Validate() error {
	if cfg.Port == "" {
		return errors.Errorf("port is required")
	}

	cfg.setDefaults()

	if cfg.Baud < 0 {
		return errors.Errorf("baud must not be negative")
	}
	if !strings.HasPrefix(cfg.ScriptExt, ".") {
		return errors.Errorf("script_ext must start with a dot: %q", cfg.ScriptExt)
	}

	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.StageDir = filepath.Clean(cfg.StageDir)
	if err := stage.CheckDirs(cfg.SourceDir, cfg.StageDir); err != nil {
		return errors.Errorf("stage_dir must not be or contain source_dir: %w", err)
	}

	for _, list := range [][]string{cfg.NoStripPatterns, cfg.ExcludeFiles, cfg.ExcludeDirs} {
		for _, pattern := range list {
			if !doublestar.ValidatePattern(pattern) {
				return errors.Errorf("invalid pattern: %q", pattern)
			}
		}
	}

	return nil
}

// setDefaults fills zero fields. Lists are only defaulted when absent, so an
// explicit empty list disables them.
func (cfg *Config) setDefaults() {
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}
	if cfg.RuntimeVersion == "" {
		cfg.RuntimeVersion = DefaultRuntimeVersion
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	if cfg.StageDir == "" {
		cfg.StageDir = DefaultStageDir
	}
	if cfg.TargetDir == "" {
		cfg.TargetDir = DefaultTargetDir
	}
	if cfg.ScriptExt == "" {
		cfg.ScriptExt = DefaultScriptExt
	}
	if cfg.NoStripPatterns == nil {
		cfg.NoStripPatterns = []string{"source.py", "*.config.py"}
	}
	if cfg.ExcludeFiles == nil {
		cfg.ExcludeFiles = []string{"README.md", "LICENSE", "ampy_helper.py", ".gitignore", "._DS_Store"}
	}
	if cfg.ExcludeDirs == nil {
		cfg.ExcludeDirs = []string{"build", ".idea", ".git"}
	}
	if cfg.EssentialFiles == nil {
		cfg.EssentialFiles = []string{}
	}
}

// 🧭 ToolSearchDir returns the directory to prepend to PATH, with ~ expanded
func (cfg *Config) ToolSearchDir() (string, error) {
	dir := cfg.ToolDir
	if dir == "" {
		dir = fmt.Sprintf(DefaultToolDirFormat, cfg.RuntimeVersion)
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", errors.Errorf("expanding tool dir %q: %w", dir, err)
	}

	return expanded, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s@%s: %s -> %s -> %s", cfg.Tool, cfg.Port, cfg.SourceDir, cfg.StageDir, cfg.TargetDir)
}
