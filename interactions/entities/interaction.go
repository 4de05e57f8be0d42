package entities

// InteractionRecord is a single entry of the reference corpus: a drug name with
// its food and lifestyle interaction warnings. Records are loaded once and never
// mutated afterwards.
type InteractionRecord struct {
	Name         string   `json:"name"`
	Reference    string   `json:"reference"`
	Interactions []string `json:"interactions"`
}
