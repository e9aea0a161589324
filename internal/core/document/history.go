package document

import (
	"bytes"
	"encoding/json"
)

// HistoryEntry is one ordered history event. The source keys each entry by a
// single property whose NAME is the event type and whose value is the event
// payload, e.g. {"movementApproved": {...}}. The raw payload is retained
// verbatim for downstream querying
type HistoryEntry struct {
	// Type is the discriminator property name; "" when none was found
	Type string

	// Payload is the raw JSON of the event body
	Payload json.RawMessage

	parsed *HistoryPayload
}

// HistoryPayload is the extracted scalar view of an event body. All fields
// are optional in the source
type HistoryPayload struct {
	User        string       `json:"user"`
	Actor       string       `json:"actor"`
	Timestamp   any          `json:"timestamp"`
	Notes       string       `json:"notes"`
	Participant *Participant `json:"participant"`
	Manager     *Manager     `json:"manager"`
	CostCentre  *CostCentre  `json:"costCentre"`
	Contract    *Contract    `json:"contract"`
}

// ActorName returns the acting user under either of its source spellings
func (p *HistoryPayload) ActorName() string {
	if p == nil {
		return ""
	}
	if p.Actor != "" {
		return p.Actor
	}
	return p.User
}

// UnmarshalJSON finds the discriminator property. Entries are expected to
// carry exactly one object-valued property; when several exist the first in
// document order wins, and scalar-valued properties are skipped
func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil { // consume '{'
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if h.Type == "" {
			if v := bytes.TrimSpace(raw); len(v) > 0 && v[0] == '{' {
				h.Type = key
				h.Payload = v
			}
		}
	}
	if h.Type == "" {
		// no object-valued property; keep the whole entry as payload
		h.Payload = data
	}
	return nil
}

// Extract decodes the payload's scalar view once and caches it
func (h *HistoryEntry) Extract() *HistoryPayload {
	if h.parsed != nil {
		return h.parsed
	}
	p := &HistoryPayload{}
	if len(h.Payload) > 0 {
		// tolerated: a payload that fails to decode yields the empty view
		_ = json.Unmarshal(h.Payload, p)
	}
	h.parsed = p
	return p
}
