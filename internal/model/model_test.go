package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBookDraft_Record(t *testing.T) {
	d := BookDraft{Title: ptr("Dune"), Price: ptr(0.0), Category: ptr("scifi")}
	assert.Equal(t, Book{Title: "Dune", Price: 0, Category: "scifi"}, d.Record())

	d.Author = ptr("Frank Herbert")
	assert.Equal(t, "Frank Herbert", d.Record().Author)
}

func TestBookPatch_Changes(t *testing.T) {
	assert.Empty(t, BookPatch{}.Changes())
	assert.Equal(t, map[string]any{"price": 12.5}, BookPatch{Price: ptr(12.5)}.Changes())
	assert.Equal(t,
		map[string]any{"title": "Emma", "author": "", "category": "classic"},
		BookPatch{Title: ptr("Emma"), Author: ptr(""), Category: ptr("classic")}.Changes(),
	)
}

func TestPersonDraftAndPatch(t *testing.T) {
	d := PersonDraft{Firstname: ptr("Ada"), Lastname: ptr("Lovelace")}
	assert.Equal(t, Person{Firstname: "Ada", Lastname: "Lovelace"}, d.Record())

	assert.Equal(t, map[string]any{"lastname": "King"}, PersonPatch{Lastname: ptr("King")}.Changes())
}
