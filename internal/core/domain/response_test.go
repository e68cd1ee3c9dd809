package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAssistantResponse_JSONShape tests the wire format field names
func TestAssistantResponse_JSONShape(t *testing.T) {
	resp := AssistantResponse{
		VoiceSummary: "You take two medications.",
		StructuredData: &StructuredPayload{
			Type: StructuredTypeMedicationList,
			Data: json.RawMessage(`[{"drug_name":"metformin","dosage":"500mg"}]`),
		},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"voice_summary"`)
	assert.Contains(t, string(data), `"structured_data"`)
	assert.Contains(t, string(data), `"drug_name"`)

	var decoded AssistantResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, resp.VoiceSummary, decoded.VoiceSummary)
	require.NotNil(t, decoded.StructuredData)
	assert.Equal(t, StructuredTypeMedicationList, decoded.StructuredData.Type)
}

// TestStructuredPayload_MedicationEntries_List tests list payload decoding
func TestStructuredPayload_MedicationEntries_List(t *testing.T) {
	payload := &StructuredPayload{
		Type: StructuredTypeMedicationList,
		Data: json.RawMessage(`[
			{"drug_name":"metformin","dosage":"500mg","frequency":"twice daily"},
			{"drug_name":"lisinopril","dosage":"10mg"}
		]`),
	}

	entries := payload.MedicationEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "metformin", entries[0].DrugName)
	assert.Equal(t, "500mg", entries[0].Dosage)
	assert.Equal(t, "twice daily", entries[0].Frequency)
	assert.Equal(t, "lisinopril", entries[1].DrugName)
}

// TestStructuredPayload_MedicationEntries_SingleNormalises tests that a
// single entry object becomes a one-element slice.
func TestStructuredPayload_MedicationEntries_SingleNormalises(t *testing.T) {
	payload := &StructuredPayload{
		Type: StructuredTypeMedication,
		Data: json.RawMessage(`{"drug_name":"aspirin","dosage":"81mg"}`),
	}

	entries := payload.MedicationEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "aspirin", entries[0].DrugName)
	assert.Equal(t, "81mg", entries[0].Dosage)
}

// TestStructuredPayload_MedicationEntries_NonBearing tests that other
// payload types yield no entries.
func TestStructuredPayload_MedicationEntries_NonBearing(t *testing.T) {
	payload := &StructuredPayload{
		Type: "lab_results",
		Data: json.RawMessage(`[{"test":"HbA1c","value":"6.1%"}]`),
	}

	assert.Nil(t, payload.MedicationEntries())
}

// TestStructuredPayload_MedicationEntries_Malformed tests that undecodable
// data yields nil rather than a panic or error.
func TestStructuredPayload_MedicationEntries_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated json", `[{"drug_name":`},
		{"scalar", `42`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := &StructuredPayload{
				Type: StructuredTypeMedicationList,
				Data: json.RawMessage(tt.data),
			}
			assert.Nil(t, payload.MedicationEntries())
		})
	}
}

// TestStructuredPayload_MedicationEntries_NilReceiver tests nil safety
func TestStructuredPayload_MedicationEntries_NilReceiver(t *testing.T) {
	var payload *StructuredPayload
	assert.False(t, payload.IsMedicationBearing())
	assert.Nil(t, payload.MedicationEntries())
}

// TestNewValidationResult tests flag-to-validity mapping
func TestNewValidationResult(t *testing.T) {
	clean := NewValidationResult(nil)
	assert.True(t, clean.IsValid)
	assert.Empty(t, clean.Flags)

	flagged := NewValidationResult([]string{"unknown drug name: Fakeamol"})
	assert.False(t, flagged.IsValid)
	assert.Len(t, flagged.Flags, 1)
}

// TestValidationResult_JSONShape tests the wire format field names
func TestValidationResult_JSONShape(t *testing.T) {
	result := NewValidationResult([]string{"flag one"})

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"is_valid":false`)
	assert.Contains(t, string(data), `"flags"`)
}
