package search

import "github.com/gobwas/glob"

// compileGlob compiles pattern with '/' as the path separator, matching
// the semantics the dispatcher's `files` tool and CLI `--file-path-pattern`
// flag both rely on (so a pattern behaves identically whether it reached
// search through the CLI, MCP, or HTTP surface).
func compileGlob(pattern string) (glob.Glob, error) {
	return glob.Compile(pattern, '/')
}
