package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/persona"
	"github.com/darcyapp/darcy-server/internal/store"
)

type fakeCatalog struct {
	queries []string
	books   []domain.Book
	byQuery map[string][]domain.Book
	err     error
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]domain.Book, error) {
	f.queries = append(f.queries, query)
	if f.byQuery != nil {
		return f.byQuery[query], f.err
	}
	return f.books, f.err
}

func testCompanion(t *testing.T, completer Completer, catalog Catalog) (*CompanionService, *LibraryService, *store.Store) {
	t.Helper()
	library, st := testLibraryService(t)
	chat := NewChatService(completer, discardLogger())
	svc := NewCompanionService(st, chat, library, catalog, discardLogger())
	return svc, library, st
}

func TestGeneralConversation_Seeded(t *testing.T) {
	svc, _, _ := testCompanion(t, &fakeCompleter{}, &fakeCatalog{})

	convo, err := svc.GeneralConversation()
	require.NoError(t, err)
	require.Len(t, convo.Messages, 1)
	assert.Equal(t, domain.SenderAI, convo.Messages[0].Sender)
	assert.Contains(t, persona.Greetings(), convo.Messages[0].Text)
	assert.Equal(t, persona.GreetingSchemaVersion, convo.Version)

	// The seed is stable across loads.
	again, err := svc.GeneralConversation()
	require.NoError(t, err)
	assert.Equal(t, convo.Messages[0].Text, again.Messages[0].Text)
}

func TestGeneralConversation_StaleSeedReplaced(t *testing.T) {
	svc, _, st := testCompanion(t, &fakeCompleter{}, &fakeCatalog{})

	// A single-message transcript from an older seeding schema.
	require.NoError(t, st.SaveGeneralConversation(&domain.Conversation{
		Version:  0,
		Messages: []domain.Message{{Text: "old greeting", Sender: domain.SenderAI}},
	}))

	convo, err := svc.GeneralConversation()
	require.NoError(t, err)
	require.Len(t, convo.Messages, 1)
	assert.NotEqual(t, "old greeting", convo.Messages[0].Text)
	assert.Equal(t, persona.GreetingSchemaVersion, convo.Version)
}

func TestGeneralConversation_ActiveTranscriptKept(t *testing.T) {
	svc, _, st := testCompanion(t, &fakeCompleter{}, &fakeCatalog{})

	// Multiple messages mean real history even if the version is old.
	require.NoError(t, st.SaveGeneralConversation(&domain.Conversation{
		Version: 0,
		Messages: []domain.Message{
			{Text: "old greeting", Sender: domain.SenderAI},
			{Text: "hi!", Sender: domain.SenderUser},
		},
	}))

	convo, err := svc.GeneralConversation()
	require.NoError(t, err)
	require.Len(t, convo.Messages, 2)
	assert.Equal(t, "old greeting", convo.Messages[0].Text)
}

func TestSendGeneralMessage(t *testing.T) {
	completer := &fakeCompleter{result: &openai.Result{Text: "So glad you asked!"}}
	svc, _, st := testCompanion(t, completer, &fakeCatalog{})

	convo, err := svc.SendGeneralMessage(context.Background(), "what should I read?")
	require.NoError(t, err)

	// Greeting, user turn, reply.
	require.Len(t, convo.Messages, 3)
	assert.Equal(t, "what should I read?", convo.Messages[1].Text)
	assert.Equal(t, domain.SenderUser, convo.Messages[1].Sender)
	assert.Equal(t, "So glad you asked!", convo.Messages[2].Text)
	assert.Equal(t, domain.SenderAI, convo.Messages[2].Sender)

	// The relay saw the greeting as history.
	require.Len(t, completer.history, 1)
	assert.Equal(t, domain.SenderAI, completer.history[0].Sender)

	// Persisted.
	saved, err := st.LoadGeneralConversation()
	require.NoError(t, err)
	assert.Len(t, saved.Messages, 3)
}

func TestSendGeneralMessage_EmptyRejected(t *testing.T) {
	svc, _, _ := testCompanion(t, &fakeCompleter{}, &fakeCatalog{})

	_, err := svc.SendGeneralMessage(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestSendGeneralMessage_RelayFailureBecomesReply(t *testing.T) {
	completer := &fakeCompleter{err: apperrors.UpstreamRateLimited("429")}
	svc, _, st := testCompanion(t, completer, &fakeCatalog{})

	convo, err := svc.SendGeneralMessage(context.Background(), "hello?")
	require.NoError(t, err, "relay failures surface in the transcript, not as errors")

	last := convo.Messages[len(convo.Messages)-1]
	assert.Equal(t, domain.SenderAI, last.Sender)
	assert.Equal(t, MsgQuotaExceeded, last.Text)

	saved, err := st.LoadGeneralConversation()
	require.NoError(t, err)
	assert.Equal(t, MsgQuotaExceeded, saved.Messages[len(saved.Messages)-1].Text)
}

func TestSendGeneralMessage_ShelvesEveryRecommendation(t *testing.T) {
	completer := &fakeCompleter{result: &openai.Result{Text: `You need "Circe" in your life. Also "Babel" but later.`}}
	catalog := &fakeCatalog{byQuery: map[string][]domain.Book{
		"Circe": {{ID: "cat-1", Title: "Circe", Author: "Madeline Miller"}},
		"Babel": {{ID: "cat-2", Title: "Babel", Author: "R.F. Kuang"}},
	}}
	svc, library, _ := testCompanion(t, completer, catalog)

	_, err := svc.SendGeneralMessage(context.Background(), "recommend me something")
	require.NoError(t, err)

	// Every quoted title is looked up and shelved.
	assert.Equal(t, []string{"Circe", "Babel"}, catalog.queries)

	for _, id := range []string{"cat-1", "cat-2"} {
		book, err := library.Get(id)
		require.NoError(t, err)
		assert.Equal(t, domain.ShelfDarcyRecommended, book.Shelf)
	}
}

func TestSendGeneralMessage_RecommendationFailuresIndependent(t *testing.T) {
	completer := &fakeCompleter{result: &openai.Result{Text: `Try "Nowhere" or "Babel".`}}
	catalog := &fakeCatalog{byQuery: map[string][]domain.Book{
		"Babel": {{ID: "cat-2", Title: "Babel", Author: "R.F. Kuang"}},
	}}
	svc, library, _ := testCompanion(t, completer, catalog)

	_, err := svc.SendGeneralMessage(context.Background(), "recommend me something")
	require.NoError(t, err)

	// The miss on the first title does not stop the second from shelving.
	assert.Equal(t, []string{"Nowhere", "Babel"}, catalog.queries)
	book, err := library.Get("cat-2")
	require.NoError(t, err)
	assert.Equal(t, domain.ShelfDarcyRecommended, book.Shelf)
}

func TestSendGeneralMessage_RecommendationFailureIsolated(t *testing.T) {
	completer := &fakeCompleter{result: &openai.Result{Text: `Read "Circe"!`}}
	catalog := &fakeCatalog{err: apperrors.Upstream("catalog down")}
	svc, library, _ := testCompanion(t, completer, catalog)

	convo, err := svc.SendGeneralMessage(context.Background(), "recommend me something")
	require.NoError(t, err)
	assert.Equal(t, `Read "Circe"!`, convo.Messages[len(convo.Messages)-1].Text)
	assert.Empty(t, library.Snapshot().Books)
}

func TestBookConversation(t *testing.T) {
	svc, library, _ := testCompanion(t, &fakeCompleter{}, &fakeCatalog{})
	_, err := library.AddBook(domain.Book{ID: "b1", Title: "Persuasion"}, domain.ShelfRecentlyLoved)
	require.NoError(t, err)

	convo, err := svc.BookConversation("b1")
	require.NoError(t, err)
	require.Len(t, convo.Messages, 1)
	assert.Equal(t, persona.BookOpener("Persuasion"), convo.Messages[0].Text)

	_, err = svc.BookConversation("missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestSendBookMessage(t *testing.T) {
	completer := &fakeCompleter{result: &openai.Result{Text: `"Persuasion" is perfect, honestly.`}}
	catalog := &fakeCatalog{books: []domain.Book{{ID: "cat-1", Title: "Persuasion"}}}
	svc, library, st := testCompanion(t, completer, catalog)

	_, err := library.AddBook(domain.Book{ID: "b1", Title: "Persuasion"}, domain.ShelfRecentlyLoved)
	require.NoError(t, err)

	convo, err := svc.SendBookMessage(context.Background(), "b1", "just finished it!")
	require.NoError(t, err)
	require.Len(t, convo.Messages, 3)

	saved, err := st.LoadBookConversation("b1")
	require.NoError(t, err)
	assert.Len(t, saved.Messages, 3)

	// Book chats never auto-shelve quoted titles.
	assert.Empty(t, catalog.queries)

	_, err = svc.SendBookMessage(context.Background(), "missing", "hello")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
