// Package static provides an embedded drug directory for offline use.
//
// The formulary covers common medications and their everyday synonyms.
// It is the fallback when RxNav is unreachable and the default in tests.
package static

import (
	"context"
	"fmt"
	"strings"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
	"github.com/medvault-labs/medvault-cli/internal/core/ports/driven"
)

// Ensure Directory implements the interface.
var _ driven.DrugDirectory = (*Directory)(nil)

// entry is one formulary row. Synonyms share the canonical RxCUI.
type entry struct {
	rxcui    string
	name     string
	synonyms []string
}

// formulary lists common medications with RxNorm ingredient identifiers.
var formulary = []entry{
	{rxcui: "161", name: "Acetaminophen", synonyms: []string{"Paracetamol", "Tylenol"}},
	{rxcui: "1191", name: "Aspirin", synonyms: []string{"Acetylsalicylic Acid"}},
	{rxcui: "5640", name: "Ibuprofen", synonyms: []string{"Advil", "Nurofen"}},
	{rxcui: "6809", name: "Metformin", synonyms: []string{"Glucophage"}},
	{rxcui: "723", name: "Amoxicillin", synonyms: []string{"Amoxil"}},
	{rxcui: "83367", name: "Atorvastatin", synonyms: []string{"Lipitor"}},
	{rxcui: "36567", name: "Simvastatin", synonyms: []string{"Zocor"}},
	{rxcui: "29046", name: "Lisinopril", synonyms: []string{"Zestril"}},
	{rxcui: "17767", name: "Amlodipine", synonyms: []string{"Norvasc"}},
	{rxcui: "7646", name: "Omeprazole", synonyms: []string{"Prilosec"}},
	{rxcui: "6918", name: "Metoprolol", synonyms: []string{"Lopressor"}},
	{rxcui: "10582", name: "Levothyroxine", synonyms: []string{"Synthroid"}},
	{rxcui: "5856", name: "Insulin", synonyms: []string{}},
	{rxcui: "4337", name: "Fentanyl", synonyms: []string{}},
	{rxcui: "7052", name: "Morphine", synonyms: []string{}},
	{rxcui: "2670", name: "Codeine", synonyms: []string{}},
	{rxcui: "10689", name: "Tramadol", synonyms: []string{"Ultram"}},
	{rxcui: "8183", name: "Penicillin", synonyms: []string{}},
	{rxcui: "2551", name: "Ciprofloxacin", synonyms: []string{"Cipro"}},
	{rxcui: "18631", name: "Azithromycin", synonyms: []string{"Zithromax"}},
	{rxcui: "3640", name: "Doxycycline", synonyms: []string{}},
	{rxcui: "10829", name: "Prednisone", synonyms: []string{}},
	{rxcui: "5224", name: "Furosemide", synonyms: []string{"Lasix"}},
	{rxcui: "20610", name: "Warfarin", synonyms: []string{"Coumadin"}},
	{rxcui: "32968", name: "Clopidogrel", synonyms: []string{"Plavix"}},
	{rxcui: "321988", name: "Escitalopram", synonyms: []string{"Lexapro"}},
	{rxcui: "36437", name: "Sertraline", synonyms: []string{"Zoloft"}},
	{rxcui: "4493", name: "Fluoxetine", synonyms: []string{"Prozac"}},
	{rxcui: "6470", name: "Lorazepam", synonyms: []string{"Ativan"}},
	{rxcui: "596", name: "Alprazolam", synonyms: []string{"Xanax"}},
	{rxcui: "3498", name: "Diphenhydramine", synonyms: []string{"Benadryl"}},
	{rxcui: "1424879", name: "Cetirizine", synonyms: []string{"Zyrtec"}},
	{rxcui: "6801", name: "Loratadine", synonyms: []string{"Claritin"}},
	{rxcui: "41126", name: "Pantoprazole", synonyms: []string{"Protonix"}},
	{rxcui: "6057", name: "Gabapentin", synonyms: []string{"Neurontin"}},
	{rxcui: "35636", name: "Ramipril", synonyms: []string{}},
	{rxcui: "52175", name: "Losartan", synonyms: []string{"Cozaar"}},
	{rxcui: "38454", name: "Bisoprolol", synonyms: []string{}},
	{rxcui: "7417", name: "Naproxen", synonyms: []string{"Aleve"}},
	{rxcui: "3616", name: "Salbutamol", synonyms: []string{"Albuterol", "Ventolin"}},
}

// Directory serves lookups from the embedded formulary.
type Directory struct {
	byName map[string]*domain.DrugInfo
}

// NewDirectory builds the lookup index from the embedded formulary.
func NewDirectory() *Directory {
	byName := make(map[string]*domain.DrugInfo, len(formulary)*2)

	for _, e := range formulary {
		byName[normalise(e.name)] = &domain.DrugInfo{
			RxCUI: e.rxcui,
			Name:  e.name,
		}
		for _, syn := range e.synonyms {
			byName[normalise(syn)] = &domain.DrugInfo{
				RxCUI:   e.rxcui,
				Name:    e.name,
				Synonym: syn,
			}
		}
	}

	return &Directory{byName: byName}
}

// Lookup matches a drug name or synonym case-insensitively.
func (d *Directory) Lookup(_ context.Context, name string) (*domain.DrugInfo, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: drug name must not be empty", domain.ErrInvalidInput)
	}

	info, ok := d.byName[normalise(trimmed)]
	if !ok {
		return nil, fmt.Errorf("%w: drug %q", domain.ErrNotFound, trimmed)
	}

	// Copy so callers cannot mutate the formulary.
	out := *info
	return &out, nil
}

// Size reports how many names and synonyms the formulary resolves.
func (d *Directory) Size() int {
	return len(d.byName)
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
