package floor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
)

// WriteJSON encodes a floor plan as indented JSON and writes it to w.
// The output is the full plan data model and can be consumed by downstream
// tooling or re-rendered later.
func WriteJSON(p *plan.FloorPlanData, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a floor plan to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(p *plan.FloorPlanData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(p, f)
}
