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

package device

import (
	"strconv"
)

// 🔧 Commands builds argument lists for the device tool.
// Every list starts with the same tool and connection prefix.
type Commands struct {
	Tool string // Tool executable, looked up on PATH
	Port string // Serial port
	Baud int    // Baud rate, omitted when zero
}

// 🏭 NewCommands creates a command builder
func NewCommands(tool, port string, baud int) *Commands {
	return &Commands{
		Tool: tool,
		Port: port,
		Baud: baud,
	}
}

func (c *Commands) build(op string, args ...string) []string {
	out := []string{c.Tool, "--port", c.Port}
	if c.Baud > 0 {
		out = append(out, "--baud", strconv.Itoa(c.Baud))
	}
	out = append(out, op)
	return append(out, args...)
}

// Reset soft-resets the board
func (c *Commands) Reset() []string {
	return c.build("reset")
}

// List lists the entries of a board directory
func (c *Commands) List(dir string) []string {
	return c.build("ls", dir)
}

// RemoveFile removes a single file from the board
func (c *Commands) RemoveFile(path string) []string {
	return c.build("rm", path)
}

// RemoveDir removes a board directory and everything below it
func (c *Commands) RemoveDir(path string) []string {
	return c.build("rmdir", path)
}

// Put pushes a local file or directory. An empty remote keeps the local
// basename at the board root.
func (c *Commands) Put(local, remote string) []string {
	if remote == "" {
		return c.build("put", local)
	}
	return c.build("put", local, remote)
}
