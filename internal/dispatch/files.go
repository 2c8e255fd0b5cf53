package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/karrick/godirwalk"

	"github.com/ricegrep/ricegrep/internal/gitignore"
)

type fileMatch struct {
	path  string
	mtime int64
}

// errLimitReached stops a godirwalk traversal early once filesResultLimit
// matches have been collected; it is swallowed by the caller, not surfaced.
var errLimitReached = errors.New("dispatch: file match limit reached")

// Files glob-matches paths under req.Root, newest-first, capped at
// filesResultLimit. Traversal uses godirwalk for its lower per-entry
// allocation cost on large trees and skips anything the root's gitignore
// rules exclude, the same pruning Scanner applies to indexing.
func (d *Dispatcher) Files(ctx context.Context, req FilesRequest) (*FilesResponse, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("files")
	}
	root := req.Root
	if root == "" {
		root = d.root
	}

	pattern := req.Pattern
	if req.IgnoreCase {
		pattern = strings.ToLower(pattern)
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}

	ignore := gitignore.New()
	_ = ignore.AddFromFile(filepath.Join(root, ".gitignore"), root)

	var matches []fileMatch
	truncated := false

	walkErr := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if osPathname == root {
				return nil
			}
			rel, err := filepath.Rel(root, osPathname)
			if err != nil {
				return nil
			}
			isDir := de.IsDir()
			if ignore.Match(rel, isDir) {
				if isDir {
					return filepath.SkipDir
				}
				return nil
			}
			if isDir && strings.HasPrefix(filepath.Base(osPathname), ".git") {
				return filepath.SkipDir
			}
			if !req.IncludeDirs && isDir {
				return nil
			}

			matchAgainst := osPathname
			if !req.FullPath {
				matchAgainst = rel
			}
			if req.IgnoreCase {
				matchAgainst = strings.ToLower(matchAgainst)
			}
			if !g.Match(matchAgainst) {
				return nil
			}

			info, statErr := os.Stat(osPathname)
			var mtime int64
			if statErr == nil {
				mtime = info.ModTime().UnixNano()
			}
			matches = append(matches, fileMatch{path: osPathname, mtime: mtime})
			if len(matches) >= filesResultLimit {
				truncated = true
				return errLimitReached
			}
			return nil
		},
	})
	if walkErr != nil && !errors.Is(walkErr, errLimitReached) && !errors.Is(walkErr, ctx.Err()) {
		return nil, walkErr
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].mtime > matches[j].mtime })

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.path
	}
	return &FilesResponse{Paths: paths, Truncated: truncated}, nil
}

// List returns the immediate, non-recursive entries of req.Root, honoring
// gitignore rules and an optional substring filter on the entry name.
func (d *Dispatcher) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("list")
	}
	root := req.Root
	if root == "" {
		root = d.root
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	ignore := gitignore.New()
	_ = ignore.AddFromFile(filepath.Join(root, ".gitignore"), root)

	pattern := req.Pattern
	if req.IgnoreCase {
		pattern = strings.ToLower(pattern)
	}

	result := &ListResponse{}
	for _, e := range entries {
		name := e.Name()
		if ignore.Match(name, e.IsDir()) {
			continue
		}
		candidate := name
		if req.IgnoreCase {
			candidate = strings.ToLower(candidate)
		}
		if pattern != "" && !strings.Contains(candidate, pattern) {
			continue
		}
		result.Entries = append(result.Entries, ListEntry{
			Path:  filepath.Join(root, name),
			IsDir: e.IsDir(),
		})
	}
	return result, nil
}
