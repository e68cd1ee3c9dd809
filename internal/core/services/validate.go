package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
	"github.com/medvault-labs/medvault-cli/internal/logger"
)

// dosagePattern accepts a magnitude with a dose unit, optionally as a
// range: "500mg", "5.5 ml", "1-2 tablets". Units take an optional
// plural "s"; the space before the unit is optional.
var dosagePattern = regexp.MustCompile(
	`(?i)^\d+(?:\.\d+)?(?:-\d+(?:\.\d+)?)? ?(?:mg|g|ml|mcg|iu|unit|tablet|cap|pill|drop|puff)s?$`)

// riskyTerms is the fixed denylist scanned for in voice summaries.
// Substring matching is intentional: "guaranteed" trips "guarantee".
// This is a hallucination guard for absolutist claims, not a medical
// accuracy check.
var riskyTerms = []string{"cure", "guarantee", "miracle", "100% effective"}

// MedicalValidator runs advisory safety checks over assistant responses.
// It never returns an error and never mutates the response: problems
// surface as flags, and callers decide how to present them.
type MedicalValidator struct {
	directory driven.DrugDirectory
}

// NewMedicalValidator creates a validator. The directory may be nil,
// in which case drug name checks are skipped.
func NewMedicalValidator(directory driven.DrugDirectory) *MedicalValidator {
	return &MedicalValidator{directory: directory}
}

// Validate checks a response for unknown drugs, unusual dosage formats
// and risky absolutist language. Flags accumulate in check order:
// per-entry drug then dosage checks in input order, then the language
// scan over the voice summary.
func (v *MedicalValidator) Validate(ctx context.Context, response *domain.AssistantResponse) domain.ValidationResult {
	if response == nil {
		return domain.NewValidationResult(nil)
	}

	var flags []string

	for _, entry := range response.StructuredData.MedicationEntries() {
		name := strings.TrimSpace(entry.DrugName)
		if name == "" {
			continue
		}

		flags = append(flags, v.checkDrugName(ctx, name)...)
		flags = append(flags, checkDosage(name, entry.Dosage)...)
	}

	flags = append(flags, checkLanguage(response.VoiceSummary)...)

	return domain.NewValidationResult(flags)
}

// checkDrugName looks a name up in the drug directory. Only a
// definitive miss raises a flag; infrastructure trouble (network, rate
// limit) skips the check, because a flaky lookup must not mark valid
// medication data as risky.
func (v *MedicalValidator) checkDrugName(ctx context.Context, name string) []string {
	if v.directory == nil {
		return nil
	}

	_, err := v.directory.Lookup(ctx, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return []string{fmt.Sprintf("unknown drug name: %s", name)}
	default:
		logger.Debug("Drug lookup for %q skipped: %v", name, err)
		return nil
	}
}

// checkDosage validates the dosage string shape. Empty dosages are
// skipped; anything that is not magnitude+unit or range+unit is flagged
// with the drug name and the literal dosage text.
func checkDosage(name, dosage string) []string {
	dosage = strings.TrimSpace(dosage)
	if dosage == "" {
		return nil
	}
	if dosagePattern.MatchString(dosage) {
		return nil
	}
	return []string{fmt.Sprintf("unusual dosage format for %s: %q", name, dosage)}
}

// checkLanguage scans the lowercased voice summary for denylist terms,
// one flag per term present.
func checkLanguage(voiceSummary string) []string {
	lowered := strings.ToLower(voiceSummary)

	var flags []string
	for _, term := range riskyTerms {
		if strings.Contains(lowered, term) {
			flags = append(flags, fmt.Sprintf("risky language: %q", term))
		}
	}
	return flags
}
