package resume

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/cv-agent/internal/types"
)

// Metadata contains metadata about a loaded CV document
type Metadata struct {
	Source    string        `json:"source,omitempty"` // File path or URL
	Timestamp string        `json:"timestamp"`        // RFC3339 format
	Hash      string        `json:"hash"`             // SHA256 hex digest of the cleaned content
	Sections  SectionCounts `json:"sections"`
}

// SectionCounts summarizes how much structure parsing recovered.
type SectionCounts struct {
	Personal   int `json:"personal"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Skills     int `json:"skills"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string, record *types.CVRecord) *Metadata {
	m := &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
	if record != nil {
		m.Sections = SectionCounts{
			Personal:   len(record.Personal),
			Experience: len(record.Experience),
			Education:  len(record.Education),
			Skills:     len(record.Skills),
		}
	}
	return m
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
