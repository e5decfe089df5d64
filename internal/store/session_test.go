package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := st.CreateSession(ctx)
	require.NoError(t, err)

	t.Run("seeded with welcome message", func(t *testing.T) {
		require.Len(t, sess.Messages, 1)
		assert.Equal(t, domain.RoleAssistant, sess.Messages[0].Role)
		assert.Contains(t, sess.Messages[0].Text, "Hi! I'm your AI shopping assistant")
	})

	t.Run("new session becomes active", func(t *testing.T) {
		second, err := st.CreateSession(ctx)
		require.NoError(t, err)

		active, ok := st.ActiveSession()
		require.True(t, ok)
		assert.Equal(t, second.ID, active.ID)
	})
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting the last session auto-creates a replacement", func(t *testing.T) {
		st, _ := newTestStore(t)
		sess, _ := st.CreateSession(ctx)

		require.NoError(t, st.DeleteSession(ctx, sess.ID))

		state := st.Snapshot()
		require.Len(t, state.Sessions, 1)
		replacement := state.MostRecentSession()
		assert.NotEqual(t, sess.ID, replacement.ID)
		require.Len(t, replacement.Messages, 1)
		assert.Equal(t, domain.RoleAssistant, replacement.Messages[0].Role)

		active, ok := st.ActiveSession()
		require.True(t, ok)
		assert.Equal(t, replacement.ID, active.ID)
	})

	t.Run("active successor is most recently created survivor", func(t *testing.T) {
		st, _ := newTestStore(t)
		first, _ := st.CreateSession(ctx)
		time.Sleep(time.Millisecond)
		second, _ := st.CreateSession(ctx)
		time.Sleep(time.Millisecond)
		third, _ := st.CreateSession(ctx)

		require.NoError(t, st.DeleteSession(ctx, third.ID))

		active, ok := st.ActiveSession()
		require.True(t, ok)
		assert.Equal(t, second.ID, active.ID)
		_ = first
	})

	t.Run("unknown id", func(t *testing.T) {
		st, _ := newTestStore(t)
		err := st.DeleteSession(ctx, uuid.New())
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestSwitchActiveSession(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	first, _ := st.CreateSession(ctx)
	second, _ := st.CreateSession(ctx)

	require.NoError(t, st.SwitchActiveSession(ctx, first.ID))

	active, ok := st.ActiveSession()
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)

	// Pure pointer change: the other session's history is untouched.
	state := st.Snapshot()
	assert.Len(t, state.Sessions[second.ID].Messages, 1)

	err := st.SwitchActiveSession(ctx, uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestAppendMessage(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	sess, _ := st.CreateSession(ctx)

	t.Run("appends in order", func(t *testing.T) {
		_, err := st.AppendMessage(ctx, sess.ID, domain.RoleUser, "add milk")
		require.NoError(t, err)
		updated, err := st.AppendMessage(ctx, sess.ID, domain.RoleAssistant, "Done!")
		require.NoError(t, err)

		require.Len(t, updated.Messages, 3)
		assert.Equal(t, domain.RoleUser, updated.Messages[1].Role)
		assert.Equal(t, "add milk", updated.Messages[1].Text)
		assert.Equal(t, domain.RoleAssistant, updated.Messages[2].Role)
	})

	t.Run("blank user text rejected, blank assistant text allowed", func(t *testing.T) {
		_, err := st.AppendMessage(ctx, sess.ID, domain.RoleUser, "   ")
		assert.True(t, domain.IsValidation(err))

		_, err = st.AppendMessage(ctx, sess.ID, domain.RoleAssistant, "")
		assert.NoError(t, err)
	})

	t.Run("unknown session and role", func(t *testing.T) {
		_, err := st.AppendMessage(ctx, uuid.New(), domain.RoleUser, "hi")
		assert.True(t, domain.IsNotFound(err))

		_, err = st.AppendMessage(ctx, sess.ID, domain.MessageRole("system"), "hi")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestEnsureActiveSession(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	first, err := st.EnsureActiveSession(ctx)
	require.NoError(t, err)
	require.Len(t, first.Messages, 1)

	again, err := st.EnsureActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "existing active session is reused")
}
