// Package roster tracks the attendees of a bill-splitting session.
//
// Names are opaque, case-sensitive identifiers. Insertion order is preserved
// for display. Trimming or otherwise normalizing input is the caller's job.
package roster

// Roster is an ordered, duplicate-free set of participant names.
//
// The zero value is an empty roster ready for use. Roster is not safe for
// concurrent use; the session layer serializes access.
type Roster struct {
	names []string
}

// New returns a roster seeded with the given names. Duplicates are dropped,
// keeping the first occurrence.
func New(names ...string) *Roster {
	r := &Roster{}
	for _, n := range names {
		r.Add(n)
	}
	return r
}

// Add appends name to the roster. Adding a name that is already present
// (exact match) is a no-op. It reports whether the roster changed.
func (r *Roster) Add(name string) bool {
	if name == "" || r.Contains(name) {
		return false
	}
	r.names = append(r.names, name)
	return true
}

// Remove deletes name from the roster, preserving the order of the rest.
// It reports whether the name was present, so the caller knows to strip the
// name from any items still referencing it.
func (r *Roster) Remove(name string) bool {
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether name is on the roster (exact, case-sensitive match).
func (r *Roster) Contains(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns the roster in insertion order. The returned slice is a copy.
func (r *Roster) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of names on the roster.
func (r *Roster) Len() int {
	return len(r.names)
}
