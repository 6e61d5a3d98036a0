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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_tool": cty.StringVal(DefaultTool),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Port           string `hcl:"port"`
		Baud           int    `hcl:"baud,optional"`
		Tool           string `hcl:"tool,optional"`
		ToolDir        string `hcl:"tool_dir,optional"`
		RuntimeVersion string `hcl:"runtime_version,optional"`
		Build          *struct {
			SourceDir       string   `hcl:"source_dir,optional"`
			StageDir        string   `hcl:"stage_dir,optional"`
			ScriptExt       string   `hcl:"script_ext,optional"`
			NoStripPatterns []string `hcl:"no_strip_patterns,optional"`
			ExcludeFiles    []string `hcl:"exclude_files,optional"`
			ExcludeDirs     []string `hcl:"exclude_dirs,optional"`
		} `hcl:"build,block"`
		Board *struct {
			TargetDir      string   `hcl:"target_dir,optional"`
			EssentialFiles []string `hcl:"essential_files,optional"`
		} `hcl:"board,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Port:           hclCfg.Port,
		Baud:           hclCfg.Baud,
		Tool:           hclCfg.Tool,
		ToolDir:        hclCfg.ToolDir,
		RuntimeVersion: hclCfg.RuntimeVersion,
	}

	if b := hclCfg.Build; b != nil {
		cfg.SourceDir = b.SourceDir
		cfg.StageDir = b.StageDir
		cfg.ScriptExt = b.ScriptExt
		cfg.NoStripPatterns = b.NoStripPatterns
		cfg.ExcludeFiles = b.ExcludeFiles
		cfg.ExcludeDirs = b.ExcludeDirs
	}

	if b := hclCfg.Board; b != nil {
		cfg.TargetDir = b.TargetDir
		cfg.EssentialFiles = b.EssentialFiles
	}

	return cfg, nil
}
