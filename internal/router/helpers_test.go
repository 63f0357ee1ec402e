package router

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/marquee-app/marquee/internal/session"
	"github.com/marquee-app/marquee/internal/storage"
)

func stateWith(t *testing.T, token, isAdmin string) session.State {
	t.Helper()

	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(session.TokenKey, token))
	require.NoError(t, store.Set(session.AdminKey, isAdmin))
	return session.NewAccessor(store, zerolog.Nop())
}
