/*
Package config manages configuration parsing and validation for ampysync.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Loads the board, build and tool settings from a file
- Fills defaults for anything left unset
- Validates exclusion patterns before any file is touched

🔄 Flow:
1. Reads configuration from file
2. Picks a parser by file extension
3. Fills defaults and validates
4. Hands the config to the operations

📝 Notes:
Lists are defaulted only when absent. Writing `exclude_dirs: []` disables
directory exclusion entirely, while leaving the key out keeps the defaults
(build, .idea, .git).

no_strip_patterns, exclude_files and exclude_dirs are doublestar globs matched
against an entry's basename, never its path. A plain name matches only itself,
but `*`, `?`, `[` and `{` are special: write `\[` to match a literal bracket.
Patterns are checked by Validate, so a malformed one fails the load.

stage_dir is deleted before every build, so Validate refuses a stage_dir that
is the source_dir or any parent of it.

Without a config file the CLI uses Default(), which matches the layout of a
MicroPython project built into ./build and flashed over
/dev/tty.usbserial-210.

🔍 Example:

	cfg, err := config.Load(ctx, ".ampysync.yaml")
	if err != nil {
		return err
	}
	fmt.Println(cfg)

HCL files group the build and board settings into blocks:

	port = "/dev/ttyUSB0"
	tool = default_tool

	build {
	  exclude_dirs = ["build", ".git", "tests"]
	}

	board {
	  essential_files = ["boot.py"]
	}
*/
package config
