package domain

import "encoding/json"

// Structured payload types carrying medication entries.
const (
	// StructuredTypeMedicationList is a list of medications.
	StructuredTypeMedicationList = "medication_list"

	// StructuredTypeMedication is a single medication entry.
	StructuredTypeMedication = "medication"
)

// AssistantResponse is the JSON contract for AI-produced answers.
// The field names are part of the wire format shared with clients,
// so the JSON tags here are normative.
type AssistantResponse struct {
	// VoiceSummary is the short spoken-style answer text.
	VoiceSummary string `json:"voice_summary"`

	// StructuredData optionally carries typed payload such as a
	// medication list extracted from the user's documents.
	StructuredData *StructuredPayload `json:"structured_data,omitempty"`
}

// StructuredPayload is a typed data envelope within a response.
// Data stays raw until a consumer decodes it by Type.
type StructuredPayload struct {
	// Type discriminates the payload shape (e.g. medication_list).
	Type string `json:"type"`

	// Data is the payload body, decoded according to Type.
	Data json.RawMessage `json:"data"`
}

// MedicationEntry is one medication item within a structured payload.
type MedicationEntry struct {
	// DrugName is the medication name as stated by the model.
	DrugName string `json:"drug_name"`

	// Dosage is the free-text dosage, e.g. "500mg" or "1-2 tablets".
	Dosage string `json:"dosage,omitempty"`

	// Frequency is the free-text schedule, e.g. "twice daily".
	Frequency string `json:"frequency,omitempty"`
}

// IsMedicationBearing reports whether the payload type carries
// medication entries.
func (p *StructuredPayload) IsMedicationBearing() bool {
	if p == nil {
		return false
	}
	return p.Type == StructuredTypeMedicationList || p.Type == StructuredTypeMedication
}

// MedicationEntries decodes the payload into a flat entry list.
// A single-entry payload normalises to a one-element slice. Payloads
// that are not medication-bearing, or that fail to decode, yield nil;
// malformed model output is never a crash.
func (p *StructuredPayload) MedicationEntries() []MedicationEntry {
	if !p.IsMedicationBearing() || len(p.Data) == 0 {
		return nil
	}

	var entries []MedicationEntry
	if err := json.Unmarshal(p.Data, &entries); err == nil {
		return entries
	}

	var single MedicationEntry
	if err := json.Unmarshal(p.Data, &single); err == nil {
		return []MedicationEntry{single}
	}

	return nil
}

// ValidationResult carries the advisory safety flags for a response.
// Flags annotate, they never block delivery.
type ValidationResult struct {
	// IsValid is true iff no flags were raised.
	IsValid bool `json:"is_valid"`

	// Flags lists the safety concerns in check order: per-entry drug
	// and dosage flags first, then response-language flags.
	Flags []string `json:"flags"`
}

// NewValidationResult builds a result from collected flags.
func NewValidationResult(flags []string) ValidationResult {
	return ValidationResult{
		IsValid: len(flags) == 0,
		Flags:   flags,
	}
}
