package datastore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/bountyviz/schema"
)

// ReadDataset decodes a JSON dataset export.
func ReadDataset(r io.Reader) (schema.Dataset, error) {
	var data schema.Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return data, nil
}

// ReadDatasetFile decodes a JSON dataset export from a file.
func ReadDatasetFile(path string) (schema.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to open dataset %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadDataset(f)
}
