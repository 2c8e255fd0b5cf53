package dispatch

import (
	"context"
	"os"
	"strings"
)

// Replace performs a literal substring replacement of req.Old with req.New
// across req.FilePath. It never writes unless req.Force is set: DryRun and
// Preview both short-circuit to a preview of the resulting content, and an
// unforced, non-preview call reports what would happen without touching
// the file.
func (d *Dispatcher) Replace(ctx context.Context, req ReplaceRequest) (*ReplaceResponse, error) {
	if d.metrics != nil {
		d.metrics.RecordToolCall("replace")
	}
	raw, err := os.ReadFile(req.FilePath)
	if err != nil {
		return nil, err
	}
	content := string(raw)
	occurrences := strings.Count(content, req.Old)
	newContent := strings.ReplaceAll(content, req.Old, req.New)

	if req.DryRun || req.Preview || !req.Force {
		return &ReplaceResponse{
			Applied:     false,
			Preview:     newContent,
			Occurrences: occurrences,
		}, nil
	}

	if err := os.WriteFile(req.FilePath, []byte(newContent), 0644); err != nil {
		return nil, err
	}
	return &ReplaceResponse{
		Applied:     true,
		Preview:     newContent,
		Occurrences: occurrences,
	}, nil
}
