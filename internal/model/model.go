// Package model holds the record shapes served by the book and person APIs
// together with their create (Draft) and update (Patch) payloads.
package model

// Draft is a validated create payload that yields the record to insert.
type Draft[T any] interface {
	Record() T
}

// Patch is a validated update payload. Changes holds only the fields the caller sent.
type Patch interface {
	Changes() map[string]any
}

var (
	_ Draft[Book]   = BookDraft{}
	_ Draft[Person] = PersonDraft{}
	_ Patch         = BookPatch{}
	_ Patch         = PersonPatch{}
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
