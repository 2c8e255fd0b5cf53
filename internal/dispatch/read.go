package dispatch

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Read returns a line-numbered slice of a file's content starting at
// req.Offset (0-based), up to req.Limit lines (default defaultReadLimit).
// Lines longer than maxReadLineLength are truncated with a marker, and
// each line is prefixed with its 1-based, 5-digit zero-padded number —
// the same framing the CLI, MCP, and HTTP surfaces all render identically.
func (d *Dispatcher) Read(ctx context.Context, req ReadRequest) (*ReadResponse, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("read")
	}
	raw, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(string(raw), "\n")
	// A trailing newline produces one empty trailing element; drop it so
	// total line counts match what an editor would report.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	total := len(lines)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	var b strings.Builder
	b.WriteString("<file>\n")
	for i := start; i < end; i++ {
		line := lines[i]
		if len(line) > maxReadLineLength {
			line = line[:maxReadLineLength] + "...(line truncated)"
		}
		fmt.Fprintf(&b, "%05d| %s\n", i+1, line)
	}
	hasMore := end < total
	if hasMore {
		fmt.Fprintf(&b, "(File has more lines - total %d lines)\n", total)
	} else {
		fmt.Fprintf(&b, "(End of file - total %d lines)\n", total)
	}
	b.WriteString("</file>")

	return &ReadResponse{
		Content:    b.String(),
		TotalLines: total,
		HasMore:    hasMore,
	}, nil
}
