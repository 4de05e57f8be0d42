package interactions

import "strings"

// contextHeading opens every non-empty context block.
const contextHeading = "Known interaction warnings for these medications:"

// batchResolve maps each input name to its warnings. Names that resolve to
// nothing, and names whose record carries no warnings, are left out entirely
// so the caller can treat presence as "has warnings".
func (s *snapshot) batchResolve(names []string, scanLimit int) map[string][]string {
	out := make(map[string][]string, len(names))
	for _, name := range names {
		rec, tier := s.resolveExact(name, scanLimit)
		if tier == tierMiss || len(rec.Interactions) == 0 {
			continue
		}
		out[name] = rec.Interactions
	}
	return out
}

// buildContextBlock renders the warnings for a medication list as plain text
// ready to drop into an assistant prompt: a heading, then per matched name a
// bullet list of its warnings. Names keep their input order and spelling;
// repeated names render once. No warnings at all produces the empty string.
func (s *snapshot) buildContextBlock(names []string, scanLimit int) string {
	warnings := s.batchResolve(names, scanLimit)
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(contextHeading)
	b.WriteString("\n")
	emitted := make(map[string]struct{}, len(warnings))
	for _, name := range names {
		list, ok := warnings[name]
		if !ok {
			continue
		}
		if _, dup := emitted[name]; dup {
			continue
		}
		emitted[name] = struct{}{}
		b.WriteString("\n")
		b.WriteString(name)
		b.WriteString(":\n")
		for _, w := range list {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
