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
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: "config.yaml",
			config: `
port: /dev/ttyUSB0
baud: 115200
source_dir: src
stage_dir: out
target_dir: /app
no_strip_patterns:
  - "*.keep.py"
exclude_files:
  - notes.txt
exclude_dirs:
  - tests
essential_files:
  - boot.py
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/dev/ttyUSB0", cfg.Port, "port should match")
				assert.Equal(t, 115200, cfg.Baud, "baud should match")
				assert.Equal(t, "src", cfg.SourceDir, "source dir should match")
				assert.Equal(t, "out", cfg.StageDir, "stage dir should match")
				assert.Equal(t, "/app", cfg.TargetDir, "target dir should match")
				assert.Equal(t, []string{"*.keep.py"}, cfg.NoStripPatterns)
				assert.Equal(t, []string{"notes.txt"}, cfg.ExcludeFiles)
				assert.Equal(t, []string{"tests"}, cfg.ExcludeDirs)
				assert.Equal(t, []string{"boot.py"}, cfg.EssentialFiles)
				assert.Equal(t, DefaultTool, cfg.Tool, "tool should have default value")
				assert.Equal(t, DefaultScriptExt, cfg.ScriptExt, "script ext should have default value")
			},
		},
		{
			name:   "minimal_yaml",
			file:   "config.yml",
			config: "port: COM3\n",
			check: func(t *testing.T, cfg *Config) {
				def := Default()
				assert.Equal(t, "COM3", cfg.Port)
				assert.Equal(t, def.SourceDir, cfg.SourceDir)
				assert.Equal(t, def.StageDir, cfg.StageDir)
				assert.Equal(t, def.TargetDir, cfg.TargetDir)
				assert.Equal(t, def.NoStripPatterns, cfg.NoStripPatterns)
				assert.Equal(t, def.ExcludeFiles, cfg.ExcludeFiles)
				assert.Equal(t, def.ExcludeDirs, cfg.ExcludeDirs)
				assert.Empty(t, cfg.EssentialFiles)
			},
		},
		{
			name: "explicit_empty_list_kept",
			file: "config.yaml",
			config: `
port: COM3
exclude_dirs: []
`,
			check: func(t *testing.T, cfg *Config) {
				assert.NotNil(t, cfg.ExcludeDirs)
				assert.Empty(t, cfg.ExcludeDirs, "explicit empty list should not be defaulted")
			},
		},
		{
			name: "valid_json",
			file: "config.json",
			config: `{
				"port": "/dev/ttyACM0",
				"tool": "/opt/bin/ampy",
				"essential_files": ["main.py"]
			}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/dev/ttyACM0", cfg.Port)
				assert.Equal(t, "/opt/bin/ampy", cfg.Tool)
				assert.Equal(t, []string{"main.py"}, cfg.EssentialFiles)
			},
		},
		{
			name: "valid_hcl",
			file: "config.hcl",
			config: `
port = "/dev/ttyUSB1"
tool = default_tool
runtime_version = "3.12"

build {
  stage_dir    = "dist"
  exclude_dirs = ["dist", ".git"]
}

board {
  target_dir      = "/lib"
  essential_files = ["boot.py", "wifi.json"]
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/dev/ttyUSB1", cfg.Port)
				assert.Equal(t, DefaultTool, cfg.Tool)
				assert.Equal(t, "3.12", cfg.RuntimeVersion)
				assert.Equal(t, "dist", cfg.StageDir)
				assert.Equal(t, []string{"dist", ".git"}, cfg.ExcludeDirs)
				assert.Equal(t, "/lib", cfg.TargetDir)
				assert.Equal(t, []string{"boot.py", "wifi.json"}, cfg.EssentialFiles)
				assert.Equal(t, Default().ExcludeFiles, cfg.ExcludeFiles, "unset lists should have default value")
			},
		},
		{
			name:        "missing_port",
			file:        "config.yaml",
			config:      "stage_dir: out\n",
			wantErr:     true,
			errContains: "port is required",
		},
		{
			name:        "unknown_yaml_field",
			file:        "config.yaml",
			config:      "port: COM3\nflash: true\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "config.json",
			config:      `{"port": "COM3", "flash": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "hcl_missing_port",
			file:        "config.hcl",
			config:      "tool = \"ampy\"\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "same_source_and_stage",
			file:        "config.yaml",
			config:      "port: COM3\nsource_dir: ./app\nstage_dir: app\n",
			wantErr:     true,
			errContains: "is the source dir",
		},
		{
			name:        "stage_dir_contains_source",
			file:        "config.yaml",
			config:      "port: COM3\nsource_dir: src\nstage_dir: .\n",
			wantErr:     true,
			errContains: "contains the source dir",
		},
		{
			name:        "stage_dir_is_source_ancestor",
			file:        "config.yaml",
			config:      "port: COM3\nsource_dir: projects/board/src\nstage_dir: projects\n",
			wantErr:     true,
			errContains: "stage_dir must not be or contain source_dir",
		},
		{
			name:        "bad_script_ext",
			file:        "config.yaml",
			config:      "port: COM3\nscript_ext: py\n",
			wantErr:     true,
			errContains: "script_ext must start with a dot",
		},
		{
			name:        "invalid_pattern",
			file:        "config.yaml",
			config:      "port: COM3\nexclude_files: [\"[\"]\n",
			wantErr:     true,
			errContains: "invalid pattern",
		},
		{
			name:        "unsupported_extension",
			file:        "config.toml",
			config:      "port = 'COM3'\n",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.file)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist, "missing file should be detectable")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate(), "default config should be valid")
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "ampy", cfg.Tool)
	assert.Equal(t, "build", cfg.StageDir)
	assert.Equal(t, "/", cfg.TargetDir)
	assert.Equal(t, []string{"source.py", "*.config.py"}, cfg.NoStripPatterns)
	assert.Equal(t, []string{"README.md", "LICENSE", "ampy_helper.py", ".gitignore", "._DS_Store"}, cfg.ExcludeFiles)
	assert.Equal(t, []string{"build", ".idea", ".git"}, cfg.ExcludeDirs)
	assert.Empty(t, cfg.EssentialFiles)
	assert.Equal(t, "ampy@/dev/tty.usbserial-210: . -> build -> /", cfg.String())
}

func TestValidateStageDir(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name      string
		sourceDir string
		stageDir  string
		wantErr   bool
	}{
		{name: "default_layout", sourceDir: root, stageDir: filepath.Join(root, "build")},
		{name: "sibling", sourceDir: filepath.Join(root, "src"), stageDir: filepath.Join(root, "src-build")},
		{name: "same", sourceDir: root, stageDir: root + "/", wantErr: true},
		{name: "parent", sourceDir: filepath.Join(root, "src"), stageDir: root, wantErr: true},
		{name: "grandparent", sourceDir: filepath.Join(root, "a", "b"), stageDir: root, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: "COM3", SourceDir: tt.sourceDir, StageDir: tt.stageDir}
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "stage_dir must not be or contain source_dir")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestToolSearchDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "from_runtime_version",
			cfg:  &Config{RuntimeVersion: "3.11"},
			want: filepath.Join(home, "Library", "Python", "3.11", "bin"),
		},
		{
			name: "explicit_tool_dir",
			cfg:  &Config{ToolDir: "~/.local/bin", RuntimeVersion: "3.11"},
			want: filepath.Join(home, ".local", "bin"),
		},
		{
			name: "absolute_tool_dir",
			cfg:  &Config{ToolDir: "/opt/ampy/bin"},
			want: "/opt/ampy/bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ToolSearchDir()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "a.yaml", want: &YAMLParser{}},
		{filename: "a.yml", want: &YAMLParser{}},
		{filename: "a.json", want: &JSONParser{}},
		{filename: "a.hcl", want: &HCLParser{}},
		{filename: "a.toml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
