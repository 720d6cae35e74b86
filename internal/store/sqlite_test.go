package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_Conversation_CreateAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	created, err := st.CreateConversation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, "INICIO", created.State)

	got, err := st.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "INICIO", got.State)
}

func TestSQLite_Conversation_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetConversation(context.Background(), "nonexistent")
	assert.Error(t, err)
}

func TestSQLite_Conversation_UpdateState(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	_, err := st.CreateConversation(ctx, id)
	require.NoError(t, err)

	require.NoError(t, st.UpdateConversationState(ctx, id, "FINALIZADO"))

	got, err := st.GetConversation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "FINALIZADO", got.State)
}

func TestSQLite_Conversation_UpdateStateMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateConversationState(context.Background(), "nonexistent", "CARRERA")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_Conversation_ListWithFilter(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	finished := uuid.NewString()
	_, err := st.CreateConversation(ctx, finished)
	require.NoError(t, err)
	require.NoError(t, st.UpdateConversationState(ctx, finished, "FINALIZADO"))

	_, err = st.CreateConversation(ctx, uuid.NewString())
	require.NoError(t, err)

	all, err := st.ListConversations(ctx, ConversationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := st.ListConversations(ctx, ConversationFilter{State: "FINALIZADO"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, finished, done[0].ID)
}

func TestSQLite_Conversation_ListLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for range 4 {
		_, err := st.CreateConversation(ctx, uuid.NewString())
		require.NoError(t, err)
	}

	page, err := st.ListConversations(ctx, ConversationFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestSQLite_Messages_AppendAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	_, err := st.CreateConversation(ctx, id)
	require.NoError(t, err)

	_, err = st.AppendMessage(ctx, id, "assistant", "¡Hola! ¿Qué carrera estás estudiando?")
	require.NoError(t, err)
	_, err = st.AppendMessage(ctx, id, "user", "ingeniería informática")
	require.NoError(t, err)

	messages, err := st.ListMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "assistant", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "ingeniería informática", messages[1].Content)
}

func TestSQLite_Messages_EmptyConversation(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	_, err := st.CreateConversation(ctx, id)
	require.NoError(t, err)

	messages, err := st.ListMessages(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
