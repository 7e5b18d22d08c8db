package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stencilhq/stencil/internal/store"
)

// seedProject creates the first project row so documents and runs can
// reference it.
func seedProject(t *testing.T, dbPath string) {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.CreateProject(context.Background(), "Test Project")
	require.NoError(t, err)
}
