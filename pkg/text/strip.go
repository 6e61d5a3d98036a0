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

package text

import (
	"context"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 🧹 commentPattern matches line comments and triple-quoted blocks.
// A '#' inside a string literal is still treated as a comment start.
var commentPattern = regexp.MustCompile(`(?m)#.*?$|'''[\s\S]*?'''|"""[\s\S]*?"""`)

// 📄 StripResult holds the outcome of stripping a script
type StripResult struct {
	OriginalContent []byte // Content as read
	ModifiedContent []byte // Content with comment regions removed
	RemovedCount    int    // Number of comment regions removed
	WasModified     bool   // Whether anything was removed
}

// 🧹 Stripper removes comment regions from script sources
type Stripper struct{}

// 🏭 NewStripper creates a new Stripper
func NewStripper() *Stripper {
	return &Stripper{}
}

// 🔚 lineEndings rewrites CRLF and lone CR line endings to LF
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// StripComments returns text with every comment region removed.
// Line endings are normalized to LF first, so the output never mixes them.
func StripComments(text string) string {
	return commentPattern.ReplaceAllString(lineEndings.Replace(text), "")
}

// 📝 Strip reads a whole script and removes its comment regions.
// The content must be valid UTF-8.
func (s *Stripper) Strip(ctx context.Context, content io.Reader) (*StripResult, error) {
	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if !utf8.Valid(original) {
		return nil, errors.New("content is not valid UTF-8")
	}

	normalized := lineEndings.Replace(string(original))
	removed := len(commentPattern.FindAllStringIndex(normalized, -1))
	result := &StripResult{
		OriginalContent: original,
		ModifiedContent: original,
		RemovedCount:    removed,
	}

	if removed > 0 || normalized != string(original) {
		result.ModifiedContent = []byte(commentPattern.ReplaceAllString(normalized, ""))
		result.WasModified = true
	}

	return result, nil
}
