package model

// Book is a catalog entry stored in the "books" collection.
type Book struct {
	ID       string  `json:"id" bson:"_id,omitempty"`
	Title    string  `json:"title" bson:"title"`
	Price    float64 `json:"price" bson:"price"`
	Author   string  `json:"author,omitempty" bson:"author,omitempty"`
	Category string  `json:"category" bson:"category"`
}

// BookDraft is the create payload for a book.
type BookDraft struct {
	Title    *string  `json:"title" validate:"required,min=1"`
	Price    *float64 `json:"price" validate:"required"`
	Author   *string  `json:"author" validate:"omitempty,min=1"`
	Category *string  `json:"category" validate:"required,min=1"`
}

// Record builds the book to insert.
func (d BookDraft) Record() Book {
	b := Book{
		Title:    deref(d.Title),
		Price:    derefFloat(d.Price),
		Category: deref(d.Category),
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	return b
}

// BookPatch is the update payload for a book; every field is optional.
type BookPatch struct {
	Title    *string  `json:"title" validate:"omitempty,min=1"`
	Price    *float64 `json:"price"`
	Author   *string  `json:"author"`
	Category *string  `json:"category" validate:"omitempty,min=1"`
}

// Changes returns the provided fields keyed by their stored name.
func (p BookPatch) Changes() map[string]any {
	changes := make(map[string]any)
	if p.Title != nil {
		changes["title"] = *p.Title
	}
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	if p.Author != nil {
		changes["author"] = *p.Author
	}
	if p.Category != nil {
		changes["category"] = *p.Category
	}
	return changes
}
