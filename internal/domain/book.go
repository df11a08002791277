// Package domain contains the core business entities and domain logic for the
// Darcy reading companion.
package domain

import "time"

// Fallback values used when catalog metadata is incomplete.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// Book is a catalog volume as the client sees it: metadata normalized from
// the upstream catalog, plus the shelving fields that only exist once the
// book has been added to the library.
type Book struct {
	AddedAt       time.Time `json:"addedAt,omitzero,omitempty"`
	CoverURL      *string   `json:"coverUrl"` // null when the catalog has no usable image
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	PublishedDate string    `json:"publishedDate"`
	Publisher     string    `json:"publisher,omitempty"`
	Language      string    `json:"language,omitempty"`
	ISBN          string    `json:"isbn"`
	UserNotes     string    `json:"userNotes,omitempty"`
	Shelf         Shelf     `json:"shelf,omitempty"`
	Categories    []string  `json:"categories"`
	PageCount     int       `json:"pageCount"`
}

// DisplayAuthor returns the author, falling back to the unknown placeholder.
func (b *Book) DisplayAuthor() string {
	if b.Author == "" {
		return UnknownAuthor
	}
	return b.Author
}
