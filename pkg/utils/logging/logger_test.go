package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesRostergenLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { os.Chdir(wd) })

	logger, err := InitLogger("test")
	require.NoError(t, err)

	logger.Info("schedule generated")
	logger.Sync()

	entries, err := os.ReadDir(filepath.Join(tmpDir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "rostergen_test_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".log"))

	data, err := os.ReadFile(filepath.Join(tmpDir, "logs", entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "schedule generated")
}
