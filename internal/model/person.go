package model

// Person is a directory entry stored in the "people" collection.
type Person struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	Firstname string `json:"firstname" bson:"firstname"`
	Lastname  string `json:"lastname" bson:"lastname"`
}

// PersonDraft is the create payload for a person.
type PersonDraft struct {
	Firstname *string `json:"firstname" validate:"required,min=1"`
	Lastname  *string `json:"lastname" validate:"required,min=1"`
}

// Record builds the person to insert.
func (d PersonDraft) Record() Person {
	return Person{
		Firstname: deref(d.Firstname),
		Lastname:  deref(d.Lastname),
	}
}

// PersonPatch is the update payload for a person.
type PersonPatch struct {
	Firstname *string `json:"firstname" validate:"omitempty,min=1"`
	Lastname  *string `json:"lastname" validate:"omitempty,min=1"`
}

// Changes returns the provided fields keyed by their stored name.
func (p PersonPatch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Firstname != nil {
		changes["firstname"] = *p.Firstname
	}
	if p.Lastname != nil {
		changes["lastname"] = *p.Lastname
	}
	return changes
}
