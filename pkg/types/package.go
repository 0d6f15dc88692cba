package types

// Package is the entry collection for one driver distribution. Entries are
// only ever appended; exclusion is expressed with Entry.Exclude.
type Package struct {
	Description string
	Version     string
	Entries     []*Entry
}

// Append adds entries to the end of the collection.
func (p *Package) Append(entries ...*Entry) {
	p.Entries = append(p.Entries, entries...)
}

// HasArch reports whether any non-excluded entry belongs to arch.
func (p *Package) HasArch(arch ArchClass) bool {
	for _, e := range p.Entries {
		if !e.Excluded() && e.Arch == arch {
			return true
		}
	}
	return false
}

// Active returns the entries that are not excluded.
func (p *Package) Active() []*Entry {
	var active []*Entry
	for _, e := range p.Entries {
		if !e.Excluded() {
			active = append(active, e)
		}
	}
	return active
}
