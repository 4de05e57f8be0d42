package interactions

import "strings"

// aliasEntry links one brand name to its generic equivalents. Every name in
// the table is stored in normalized form.
type aliasEntry struct {
	Brand    string
	Generics []string
}

// aliasTable is deliberately a slice, not a map: expansion order must be
// stable across runs and map iteration is not. Entries cover the brands most
// common in US medication lists.
var aliasTable = []aliasEntry{
	{Brand: "coumadin", Generics: []string{"warfarin"}},
	{Brand: "jantoven", Generics: []string{"warfarin"}},
	{Brand: "tylenol", Generics: []string{"acetaminophen", "paracetamol"}},
	{Brand: "advil", Generics: []string{"ibuprofen"}},
	{Brand: "motrin", Generics: []string{"ibuprofen"}},
	{Brand: "aleve", Generics: []string{"naproxen"}},
	{Brand: "bayer", Generics: []string{"aspirin"}},
	{Brand: "lipitor", Generics: []string{"atorvastatin"}},
	{Brand: "zocor", Generics: []string{"simvastatin"}},
	{Brand: "crestor", Generics: []string{"rosuvastatin"}},
	{Brand: "glucophage", Generics: []string{"metformin"}},
	{Brand: "prinivil", Generics: []string{"lisinopril"}},
	{Brand: "zestril", Generics: []string{"lisinopril"}},
	{Brand: "norvasc", Generics: []string{"amlodipine"}},
	{Brand: "cozaar", Generics: []string{"losartan"}},
	{Brand: "diovan", Generics: []string{"valsartan"}},
	{Brand: "toprol", Generics: []string{"metoprolol"}},
	{Brand: "lopressor", Generics: []string{"metoprolol"}},
	{Brand: "coreg", Generics: []string{"carvedilol"}},
	{Brand: "lasix", Generics: []string{"furosemide"}},
	{Brand: "plavix", Generics: []string{"clopidogrel"}},
	{Brand: "synthroid", Generics: []string{"levothyroxine"}},
	{Brand: "prilosec", Generics: []string{"omeprazole"}},
	{Brand: "nexium", Generics: []string{"esomeprazole"}},
	{Brand: "zantac", Generics: []string{"ranitidine"}},
	{Brand: "zoloft", Generics: []string{"sertraline"}},
	{Brand: "prozac", Generics: []string{"fluoxetine"}},
	{Brand: "lexapro", Generics: []string{"escitalopram"}},
	{Brand: "xanax", Generics: []string{"alprazolam"}},
	{Brand: "valium", Generics: []string{"diazepam"}},
	{Brand: "ambien", Generics: []string{"zolpidem"}},
	{Brand: "neurontin", Generics: []string{"gabapentin"}},
	{Brand: "ultram", Generics: []string{"tramadol"}},
	{Brand: "deltasone", Generics: []string{"prednisone"}},
	{Brand: "amoxil", Generics: []string{"amoxicillin"}},
	{Brand: "augmentin", Generics: []string{"amoxicillin", "clavulanate"}},
	{Brand: "zithromax", Generics: []string{"azithromycin"}},
	{Brand: "cipro", Generics: []string{"ciprofloxacin"}},
	{Brand: "flagyl", Generics: []string{"metronidazole"}},
	{Brand: "eliquis", Generics: []string{"apixaban"}},
	{Brand: "xarelto", Generics: []string{"rivaroxaban"}},
}

// ExpandAliases widens a normalized key into the ordered list of keys a lookup
// should try. The input itself always comes first; table hits follow in table
// order; the key's own first word closes the list when it is longer than three
// characters. The result never contains duplicates.
//
// Containment works in both directions, so "coumadin 5" still reaches
// warfarin and "warfarin sodium" still reaches coumadin.
func ExpandAliases(normalized string) []string {
	keys := []string{normalized}
	for _, e := range aliasTable {
		if strings.Contains(normalized, e.Brand) {
			for _, g := range e.Generics {
				keys = appendMissing(keys, g)
			}
		}
		for _, g := range e.Generics {
			if strings.Contains(normalized, g) {
				keys = appendMissing(keys, e.Brand)
			}
		}
	}
	if w := firstWord(normalized); len(w) > 3 {
		keys = appendMissing(keys, w)
	}
	return keys
}

// appendMissing appends key unless already present. Key lists stay tiny, so a
// linear check beats a set allocation.
func appendMissing(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}
