package entities

import (
	"encoding/json"
	"fmt"
)

// Hadith is a single text record. ID is only unique within its collection;
// UID ("collection:id") is unique across the table.
type Hadith struct {
	ID         string `gorm:"column:id" json:"id"`
	Collection string `gorm:"column:collection" json:"collection"`
	TextAr     string `gorm:"column:text_ar" json:"text_ar"`
	TextNorm   string `gorm:"column:text_norm" json:"text_norm"`
	TokensJSON string `gorm:"column:tokens_json" json:"-"`
	SearchKeys string `gorm:"column:search_keys" json:"search_keys"`
	UID        string `gorm:"column:uid" json:"uid"`
}

func (Hadith) TableName() string {
	return "hadith"
}

// Tokens decodes the stored token list.
func (h Hadith) Tokens() ([]string, error) {
	if h.TokensJSON == "" {
		return nil, nil
	}
	var tokens []string
	if err := json.Unmarshal([]byte(h.TokensJSON), &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode tokens for %s: %w", h.UID, err)
	}
	return tokens, nil
}

// MakeUID derives the globally unique record identifier.
func MakeUID(collection, id string) string {
	return collection + ":" + id
}
