package entities

// Severity classifies how serious a drug-drug interaction is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// ParseSeverity maps a dataset severity label to a Severity, defaulting to
// moderate for unknown labels so a sloppy upstream row never hides a warning.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityMinor, SeverityModerate, SeverityMajor:
		return Severity(s)
	default:
		return SeverityModerate
	}
}

// PairInteraction is a drug-drug interaction entry from the pairs corpus.
// Like InteractionRecord it is plain immutable data.
type PairInteraction struct {
	DrugA       string   `json:"drugA"`
	DrugB       string   `json:"drugB"`
	Severity    Severity `json:"severity"`
	Mechanism   string   `json:"mechanism"`
	Description string   `json:"description"`
}
