package seed

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed data/hadith.json
var bundled embed.FS

const bundledPath = "data/hadith.json"

// ErrInvalidItem marks a dataset item that cannot be imported.
var ErrInvalidItem = errors.New("invalid dataset item")

// ItemID accepts both JSON strings and JSON numbers. Numbers are kept as
// their decimal string.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ItemID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*id = ItemID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ItemID(n.String())
	return nil
}

// Item is one record of the seed dataset.
type Item struct {
	ID         ItemID   `json:"id"`
	Collection string   `json:"collection"`
	TextAr     string   `json:"text_ar"`
	Tokens     []string `json:"tokens,omitempty"`
}

// Validate reports why the item cannot be imported, if it cannot. Only empty
// fields are rejected; whitespace is kept as given.
func (i Item) Validate() error {
	var missing []string
	if i.ID == "" {
		missing = append(missing, "id")
	}
	if i.Collection == "" {
		missing = append(missing, "collection")
	}
	if i.TextAr == "" {
		missing = append(missing, "text_ar")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidItem, strings.Join(missing, ", "))
	}
	return nil
}

// ParseDataset decodes a JSON array of items.
func ParseDataset(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return items, nil
}

// LoadDataset reads a dataset from a JSON file on disk.
func LoadDataset(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return ParseDataset(data)
}

// BundledDataset returns the dataset compiled into the binary.
func BundledDataset() ([]Item, error) {
	data, err := bundled.ReadFile(bundledPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled dataset: %w", err)
	}
	return ParseDataset(data)
}

// Dataset returns the file at path when set, otherwise the bundled dataset.
func Dataset(path string) ([]Item, error) {
	if path == "" {
		return BundledDataset()
	}
	return LoadDataset(path)
}
