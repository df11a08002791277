package domain

import (
	"slices"
	"time"
)

// MaxFavorites caps how many books can be marked favorite at once.
const MaxFavorites = 5

// FavoritesCapacityMessage is shown when the favorites cap is hit.
const FavoritesCapacityMessage = "You can only have 5 favorite books. Remove one to add another!"

// Library is the in-memory aggregate of shelved books and favorites.
// It is not safe for concurrent use; callers serialize access.
type Library struct {
	Books     []Book   // insertion order preserved
	Favorites []string // book IDs, at most MaxFavorites
}

// Upsert places a book on a shelf. If the book is already in the library
// only its shelf changes; AddedAt is stamped only on first add. Returns
// true when the book was newly added.
func (l *Library) Upsert(book Book, shelf Shelf) bool {
	for i := range l.Books {
		if l.Books[i].ID == book.ID {
			l.Books[i].Shelf = shelf
			return false
		}
	}
	book.Shelf = shelf
	book.AddedAt = time.Now()
	l.Books = append(l.Books, book)
	return true
}

// Move changes the shelf of an existing book. Unknown IDs are a no-op.
func (l *Library) Move(bookID string, shelf Shelf) bool {
	for i := range l.Books {
		if l.Books[i].ID == bookID {
			l.Books[i].Shelf = shelf
			return true
		}
	}
	return false
}

// Remove deletes a book from the library and from favorites.
// Returns false if the book was not present.
func (l *Library) Remove(bookID string) bool {
	for i := range l.Books {
		if l.Books[i].ID == bookID {
			l.Books = append(l.Books[:i], l.Books[i+1:]...)
			l.Favorites = slices.DeleteFunc(l.Favorites, func(id string) bool {
				return id == bookID
			})
			return true
		}
	}
	return false
}

// Get returns the shelved book with the given ID, or nil.
func (l *Library) Get(bookID string) *Book {
	for i := range l.Books {
		if l.Books[i].ID == bookID {
			return &l.Books[i]
		}
	}
	return nil
}

// OnShelf returns the books on the given shelf in insertion order.
func (l *Library) OnShelf(shelf Shelf) []Book {
	var books []Book
	for i := range l.Books {
		if l.Books[i].Shelf == shelf {
			books = append(books, l.Books[i])
		}
	}
	return books
}

// IsFavorite reports whether the book is currently a favorite.
func (l *Library) IsFavorite(bookID string) bool {
	return slices.Contains(l.Favorites, bookID)
}

// ToggleFavorite flips the favorite state of a book. Adding beyond
// MaxFavorites is rejected: favorite and ok are both false. Toggling is
// allowed for any ID so a favorite can outlive catalog metadata churn.
func (l *Library) ToggleFavorite(bookID string) (favorite, ok bool) {
	if l.IsFavorite(bookID) {
		l.Favorites = slices.DeleteFunc(l.Favorites, func(id string) bool {
			return id == bookID
		})
		return false, true
	}
	if len(l.Favorites) >= MaxFavorites {
		return false, false
	}
	l.Favorites = append(l.Favorites, bookID)
	return true, true
}
