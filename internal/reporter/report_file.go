package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/mini-maxit/tester/pkg/errors"
	"github.com/mini-maxit/tester/pkg/solution"
	"gopkg.in/yaml.v3"
)

// WriteReportFile stores result as json or yaml, chosen by the file extension.
func WriteReportFile(path string, result solution.Result) error {
	var (
		content []byte
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		content, err = json.MarshalIndent(result, "", "  ")
	case ".yaml", ".yml":
		content, err = yaml.Marshal(result)
	default:
		return fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedReportType, path)
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
