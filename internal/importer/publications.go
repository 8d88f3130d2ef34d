package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scrim-network/pubstats/internal/reference"
	"github.com/scrim-network/pubstats/internal/storage"
)

// ReadPublications reads a bibliography export: a Paperpile JSON array
// (.json) or one record per line (.jsonl).
func ReadPublications(path string) ([]reference.RawRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading bibliography: %w", err)
		}
		var records []reference.RawRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing bibliography %s: %w", path, err)
		}
		return records, nil
	case ".jsonl":
		return storage.ReadRecords(path)
	default:
		return nil, fmt.Errorf("reading bibliography %s: %w %q", path, ErrUnsupportedFormat, ext)
	}
}
