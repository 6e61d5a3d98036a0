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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entries
	nameWidth   = 35 // Base width for entry path
	kindWidth   = 6  // Width for entry kind
	actionWidth = 10 // Width for action text
)

// 🏷️ Action is what happened to a single entry
type Action string

const (
	ActionStripped Action = "stripped" // Script written with comments removed
	ActionCopied   Action = "copied"   // File copied byte for byte
	ActionSkipped  Action = "skipped"  // Left out by an exclusion rule
	ActionRemoved  Action = "removed"  // Deleted from the board
	ActionKept     Action = "kept"     // Essential board entry left alone
	ActionUploaded Action = "uploaded" // Pushed to the board
)

// 🎯 EntryOperation represents one file or directory handled by an operation
type EntryOperation struct {
	Path   string // Local or board path
	IsDir  bool   // Whether the entry is a directory
	Action Action // What happened
	Detail string // Optional extra text
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	section string
	entries []EntryOperation
}

// 🏭 New creates a new logger. Console lines are mirrored to stderr at debug
// level only, so they show up once unless debug logging is on.
func New(console io.Writer, level zerolog.Level) *Logger {
	return newLogger(console, zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

func newLogger(console, mirror io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(mirror).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (op EntryOperation) kind() string {
	if op.IsDir {
		return "dir"
	}
	return "file"
}

// 📝 formatEntry formats an entry operation for display
func (l *Logger) formatEntry(op EntryOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Action {
	case ActionStripped:
		symbol = '✓'
		symbolColor = color.FgGreen
	case ActionCopied:
		symbol = '•'
		symbolColor = color.FgCyan
	case ActionRemoved:
		symbol = '✗'
		symbolColor = color.FgRed
	case ActionKept:
		symbol = '◆'
		symbolColor = color.FgMagenta
	case ActionUploaded:
		symbol = '↑'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", entryIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", kindWidth, op.kind())),
		fmt.Sprintf("%-*s", actionWidth, op.Action),
		op.Detail)
}

// 📝 LogEntry logs an entry operation
func (l *Logger) LogEntry(ctx context.Context, op EntryOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, op)

	fmt.Fprintln(l.console, l.formatEntry(op))

	l.zlog.Debug().
		Str("path", op.Path).
		Bool("is_dir", op.IsDir).
		Str("action", string(op.Action)).
		Str("detail", op.Detail).
		Msg("entry")
}

// 📝 StartSection starts a titled group of entries
func (l *Logger) StartSection(ctx context.Context, title, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.section = title
	l.entries = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(title),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(detail))

	l.zlog.Debug().
		Str("section", title).
		Str("detail", detail).
		Msg("starting section")
}

// 📝 EndSection ends the current section and returns how many entries it logged
func (l *Logger) EndSection(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.section == "" {
		return 0
	}

	count := len(l.entries)
	l.zlog.Debug().
		Str("section", l.section).
		Int("entries", count).
		Msg("section complete")

	l.section = ""
	l.entries = nil
	return count
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("ampysync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
