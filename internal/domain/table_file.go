package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// draftTableFile is the on-disk layout of a custom draft table:
//
//	drafts:
//	  - tide: -0.1
//	    draft: 7.30
type draftTableFile struct {
	Drafts []DraftEntry `yaml:"drafts"`
}

// LoadDraftTable reads a YAML draft table from path.
func LoadDraftTable(path string) (*DraftTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft table: %w", err)
	}
	return ParseDraftTable(data)
}

// ParseDraftTable decodes a YAML draft table.
func ParseDraftTable(data []byte) (*DraftTable, error) {
	var f draftTableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse draft table: %w", err)
	}
	return NewDraftTable(f.Drafts)
}
