package service

import (
	"encoding/json"
	"log"

	"carbontrack/internal/domain"
)

// DecodeEntries resolves a stored entries payload into structured entries.
// The payload is either a JSON array of entries or a legacy string-encoded
// form of the same array. A malformed entry is skipped and counted; it never
// aborts the containing record. Returns the decoded entries and the number
// of entries (or whole payloads) that failed to parse.
func DecodeEntries(raw json.RawMessage) ([]domain.ResourceEntry, int) {
	if len(raw) == 0 {
		return nil, 0
	}

	data := []byte(raw)

	// Legacy records hold the array JSON-encoded inside a string.
	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return nil, 1
		}
		data = []byte(encoded)
	}

	// Decode elements individually so one bad entry doesn't poison the rest.
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, 1
	}

	entries := make([]domain.ResourceEntry, 0, len(elements))
	skipped := 0
	for _, el := range elements {
		var entry domain.ResourceEntry
		if err := json.Unmarshal(el, &entry); err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped
}

// EntryContribution returns the CO2 contribution of a single entry in kg.
// A precomputed contribution takes precedence; otherwise it is derived
// from quantity and factor.
func EntryContribution(entry domain.ResourceEntry) float64 {
	if entry.CO2Kg != 0 {
		return entry.CO2Kg
	}
	return entry.Quantity * entry.CO2Factor
}

// NormalizeRecord reduces a resource record to its total CO2 contribution
// in kg. Unparseable entries contribute 0 and are logged; the rest of the
// record is still summed.
func NormalizeRecord(record *domain.ResourceRecord) float64 {
	entries, skipped := DecodeEntries(record.Entries)
	if skipped > 0 {
		log.Printf("resource record %s: skipped %d malformed entries", record.ID, skipped)
	}

	var total float64
	for _, entry := range entries {
		total += EntryContribution(entry)
	}

	return total
}
