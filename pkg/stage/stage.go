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

// Package stage builds a filtered copy of a project tree for upload.
package stage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/ampysync/pkg/log"
	"github.com/walteh/ampysync/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📏 Rules decide what ends up in the stage. Every pattern is matched
// against the entry's basename, never its path.
type Rules struct {
	ScriptExt       string   // Files with this suffix are stripped
	NoStripPatterns []string // Scripts copied verbatim
	ExcludeFiles    []string // Files left out
	ExcludeDirs     []string // Directories never walked
}

// 📊 Result counts what the stager did
type Result struct {
	Stripped int
	Copied   int
	Skipped  int
}

// 📦 Stager mirrors a source tree into a stage directory
type Stager struct {
	rules    Rules
	stripper *text.Stripper
}

// 🏭 New creates a stager
func New(rules Rules) *Stager {
	return &Stager{
		rules:    rules,
		stripper: text.NewStripper(),
	}
}

// 🔍 matchAny reports whether name matches one of patterns
func matchAny(ctx context.Context, patterns []string, name string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("name", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ShouldStrip reports whether a file with this basename gets its comments removed
func (s *Stager) ShouldStrip(ctx context.Context, name string) bool {
	return strings.HasSuffix(name, s.rules.ScriptExt) && !matchAny(ctx, s.rules.NoStripPatterns, name)
}

// 🛡️ CheckDirs rejects a stage dir that is, or contains, the source dir.
// The stage dir is removed before every build, so either would delete the project.
func CheckDirs(src, dest string) error {
	_, _, err := resolveDirs(src, dest)
	return err
}

func resolveDirs(src, dest string) (string, string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", "", errors.Errorf("resolving source dir: %w", err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", "", errors.Errorf("resolving stage dir: %w", err)
	}

	rel, err := filepath.Rel(absDest, absSrc)
	if err != nil {
		return absSrc, absDest, nil
	}
	if rel == "." {
		return "", "", errors.Errorf("stage dir %s is the source dir", dest)
	}
	if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", errors.Errorf("stage dir %s contains the source dir %s", dest, src)
	}

	return absSrc, absDest, nil
}

// 🏗️ Stage recreates dest as a filtered mirror of src.
// dest is removed first. When dest lives inside src it is never walked.
func (s *Stager) Stage(ctx context.Context, src, dest string) (*Result, error) {
	logger := log.FromContext(ctx)

	absSrc, absDest, err := resolveDirs(src, dest)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absSrc)
	if err != nil {
		return nil, errors.Errorf("reading source dir: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("source %s is not a directory", src)
	}

	if err := os.RemoveAll(absDest); err != nil {
		return nil, errors.Errorf("clearing stage dir: %w", err)
	}
	if err := os.MkdirAll(absDest, 0755); err != nil {
		return nil, errors.Errorf("creating stage dir: %w", err)
	}

	result := &Result{}
	err = filepath.WalkDir(absSrc, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absSrc {
			return nil
		}

		rel, err := filepath.Rel(absSrc, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		name := d.Name()

		if d.IsDir() {
			if path == absDest || matchAny(ctx, s.rules.ExcludeDirs, name) {
				logger.LogEntry(ctx, log.EntryOperation{Path: rel, IsDir: true, Action: log.ActionSkipped, Detail: "excluded"})
				result.Skipped++
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return errors.Errorf("following link %s: %w", rel, err)
			}
			if target.IsDir() {
				logger.LogEntry(ctx, log.EntryOperation{Path: rel, IsDir: true, Action: log.ActionSkipped, Detail: "linked dir"})
				result.Skipped++
				return nil
			}
		}

		if matchAny(ctx, s.rules.ExcludeFiles, name) {
			logger.LogEntry(ctx, log.EntryOperation{Path: rel, Action: log.ActionSkipped, Detail: "excluded"})
			result.Skipped++
			return nil
		}

		target := filepath.Join(absDest, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Errorf("creating parent directories: %w", err)
		}

		if s.ShouldStrip(ctx, name) {
			removed, err := s.stripFile(ctx, path, target)
			if err != nil {
				return errors.Errorf("stripping %s: %w", rel, err)
			}
			logger.LogEntry(ctx, log.EntryOperation{Path: rel, Action: log.ActionStripped, Detail: fmt.Sprintf("%d comments", removed)})
			result.Stripped++
			return nil
		}

		if err := copyFile(path, target); err != nil {
			return errors.Errorf("copying %s: %w", rel, err)
		}
		logger.LogEntry(ctx, log.EntryOperation{Path: rel, Action: log.ActionCopied})
		result.Copied++
		return nil
	})
	if err != nil {
		return result, errors.Errorf("walking %s: %w", src, err)
	}

	return result, nil
}

// 🧹 stripFile writes src to dst with comments removed
func (s *Stager) stripFile(ctx context.Context, src, dst string) (int, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return 0, errors.Errorf("reading file: %w", err)
	}

	res, err := s.stripper.Strip(ctx, bytes.NewReader(content))
	if err != nil {
		return 0, err
	}

	mode, err := fileMode(src)
	if err != nil {
		return 0, err
	}

	if err := writeFileAtomic(dst, res.ModifiedContent, mode); err != nil {
		return 0, err
	}
	return res.RemovedCount, nil
}

// 📄 copyFile copies src to dst byte for byte, keeping permission bits
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	mode, err := fileMode(src)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	if err := os.Chmod(dst, mode); err != nil {
		return errors.Errorf("setting mode: %w", err)
	}
	return nil
}

func fileMode(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Errorf("stat %s: %w", path, err)
	}
	return info.Mode().Perm(), nil
}

// 💾 writeFileAtomic writes to a temp file next to path and renames it into place
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, mode); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
