package domain

// DrugInfo describes a medication known to the drug directory.
type DrugInfo struct {
	// RxCUI is the RxNorm concept identifier, empty for directories
	// that do not carry one.
	RxCUI string

	// Name is the canonical drug name.
	Name string

	// Synonym is an alternate name when the directory matched one.
	Synonym string
}
