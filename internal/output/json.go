package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/soclabs/lookout/internal/engine"
)

// WriteJSON writes the report as indented JSON to w.
func WriteJSON(w io.Writer, report *engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// SaveJSON writes the report to a file, creating or truncating it.
func SaveJSON(path string, report *engine.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := WriteJSON(f, report); err != nil {
		f.Close()
		return fmt.Errorf("write report to %s: %w", path, err)
	}
	return f.Close()
}
