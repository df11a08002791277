package domain

// Shelf identifies the reading list a library book lives on. Every shelved
// book is on exactly one shelf.
type Shelf string

// The five shelves of the library.
const (
	ShelfCurrentlyReading Shelf = "currentlyReading"
	ShelfRecentlyLoved    Shelf = "recentlyLoved"
	ShelfMadeThink        Shelf = "madeThink"
	ShelfWantToRead       Shelf = "wantToRead"
	ShelfDarcyRecommended Shelf = "darcyRecommended"
)

// Shelves lists every valid shelf in display order.
func Shelves() []Shelf {
	return []Shelf{
		ShelfCurrentlyReading,
		ShelfRecentlyLoved,
		ShelfMadeThink,
		ShelfWantToRead,
		ShelfDarcyRecommended,
	}
}

// Valid reports whether s is one of the known shelves.
func (s Shelf) Valid() bool {
	switch s {
	case ShelfCurrentlyReading, ShelfRecentlyLoved, ShelfMadeThink,
		ShelfWantToRead, ShelfDarcyRecommended:
		return true
	}
	return false
}
