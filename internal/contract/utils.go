package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/bountyviz/schema"
)

// Color variables for console output of node types.
var (
	SourceColor      = color.New(color.FgMagenta, color.Bold) // funders
	TargetColor      = color.New(color.FgYellow)              // fulfillers with pending work
	AcceptedColor    = color.New(color.FgGreen, color.Bold)   // fulfillers with accepted work
	IndependentColor = color.New(color.FgCyan)                // profiles without relationships
)

// GetColorLabel returns a colored node type label for console output (table).
func GetColorLabel(nodeType schema.NodeType) string {
	text := string(nodeType)
	switch nodeType {
	case schema.SourceNode:
		return SourceColor.Sprint(text)
	case schema.TargetNode:
		return TargetColor.Sprint(text)
	case schema.TargetAcceptedNode:
		return AcceptedColor.Sprint(text)
	default:
		return IndependentColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the default SQLite DB file of the bounty store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".bountyviz.db"
	}
	return filepath.Join(homeDir, ".bountyviz.db")
}

// TruncatePath shortens a category path to maxWidth runes, keeping its tail.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// IsTruthy reports whether a query flag is set. Any non-empty value counts
// except the explicit negatives accepted by ParseBoolString.
func IsTruthy(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if b, err := ParseBoolString(s); err == nil {
		return b
	}
	return true
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
