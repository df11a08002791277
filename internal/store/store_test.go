package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darcyapp/darcy-server/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLibraryRoundTrip(t *testing.T) {
	s := testStore(t)

	lib := &domain.Library{}
	lib.Upsert(domain.Book{ID: "b1", Title: "Persuasion", Author: "Jane Austen"}, domain.ShelfRecentlyLoved)
	lib.Upsert(domain.Book{ID: "b2", Title: "Circe", Author: "Madeline Miller"}, domain.ShelfCurrentlyReading)
	_, ok := lib.ToggleFavorite("b1")
	require.True(t, ok)

	require.NoError(t, s.SaveLibrary(lib))

	loaded, err := s.LoadLibrary()
	require.NoError(t, err)
	require.Len(t, loaded.Books, 2)
	assert.Equal(t, "Persuasion", loaded.Books[0].Title)
	assert.Equal(t, domain.ShelfRecentlyLoved, loaded.Books[0].Shelf)
	assert.Equal(t, []string{"b1"}, loaded.Favorites)
}

func TestLoadLibrary_Empty(t *testing.T) {
	s := testStore(t)

	lib, err := s.LoadLibrary()
	require.NoError(t, err)
	assert.Empty(t, lib.Books)
	assert.Empty(t, lib.Favorites)
}

func TestGeneralConversationRoundTrip(t *testing.T) {
	s := testStore(t)

	// Nothing saved yet.
	convo, err := s.LoadGeneralConversation()
	require.NoError(t, err)
	assert.Nil(t, convo)

	saved := &domain.Conversation{
		Version: 1,
		Messages: []domain.Message{
			{Text: "Hello!", Sender: domain.SenderAI},
			{Text: "Hi Darcy", Sender: domain.SenderUser},
		},
	}
	require.NoError(t, s.SaveGeneralConversation(saved))

	convo, err = s.LoadGeneralConversation()
	require.NoError(t, err)
	require.NotNil(t, convo)
	assert.Equal(t, 1, convo.Version)
	require.Len(t, convo.Messages, 2)
	assert.Equal(t, domain.SenderUser, convo.Messages[1].Sender)
}

func TestBookConversationRoundTrip(t *testing.T) {
	s := testStore(t)

	convo, err := s.LoadBookConversation("b1")
	require.NoError(t, err)
	assert.Nil(t, convo)

	saved := &domain.Conversation{
		Messages: []domain.Message{{Text: "Oh, Circe!", Sender: domain.SenderAI}},
	}
	require.NoError(t, s.SaveBookConversation("b1", saved))

	convo, err = s.LoadBookConversation("b1")
	require.NoError(t, err)
	require.NotNil(t, convo)
	assert.Equal(t, "Oh, Circe!", convo.Messages[0].Text)

	// Conversations are keyed per book.
	other, err := s.LoadBookConversation("b2")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, s.DeleteBookConversation("b1"))
	convo, err = s.LoadBookConversation("b1")
	require.NoError(t, err)
	assert.Nil(t, convo)

	// Deleting again is fine.
	require.NoError(t, s.DeleteBookConversation("b1"))
}

func TestLoadLibrary_FavoritesCapEnforced(t *testing.T) {
	s := testStore(t)

	// Write an oversized favorites list directly.
	require.NoError(t, s.set([]byte(keyLibraryFavorites), []string{"a", "b", "c", "d", "e", "f", "g"}))

	lib, err := s.LoadLibrary()
	require.NoError(t, err)
	assert.Len(t, lib.Favorites, domain.MaxFavorites)
}
