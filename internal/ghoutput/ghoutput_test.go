package ghoutput

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAppendsSortedSanitizedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("previous=1\n"), 0o600))

	err := Write(path, map[string]string{
		"status": "rejected",
		"error":  "line one\nline two 100%",
		"":       "ignored",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous=1\nerror=line one%0Aline two 100%25\nstatus=rejected\n", string(data))
}

func TestWriteWithoutPathIsNoop(t *testing.T) {
	require.NoError(t, Write("", map[string]string{"status": "recorded"}))
}
