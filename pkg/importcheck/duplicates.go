package importcheck

// FindDuplicates reports every binding whose raw text already appeared earlier in
// the same module's list. A name declared k times yields k-1 entries; the first
// occurrence is never reported. Side-effect bindings are ignored.
func FindDuplicates(set *ModuleImportSet) []Binding {
	var duplicates []Binding

	for _, module := range set.order {
		seen := make(map[string]struct{})

		for _, b := range set.bindings[module] {
			if b.IsSideEffect() {
				continue
			}

			if _, ok := seen[b.Raw]; ok {
				duplicates = append(duplicates, b)

				continue
			}

			seen[b.Raw] = struct{}{}
		}
	}

	return duplicates
}
