package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tempHome, ".caresync", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("ai.provider", "openai")
	require.NoError(t, err)

	val, ok := store.Get("ai.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 5))

	// A second store reading the same file sees the value
	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 5, reopened.GetInt("retrieval.top_k"))
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.model", "gpt-4o-mini"))
	assert.Equal(t, "gpt-4o-mini", store.GetString("ai.model"))

	assert.Equal(t, "", store.GetString("nonexistent"))

	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 3))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))

	assert.Equal(t, 0, store.GetInt("nonexistent"))

	require.NoError(t, store.Set("string_key", "not a number"))
	assert.Equal(t, 0, store.GetInt("string_key"))
}

func TestConfigStore_GetInt_AfterReload(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// TOML round-trip turns ints into int64
	require.NoError(t, store.Set("chunking.max_chunk_chars", 1000))
	require.NoError(t, store.Load())
	assert.Equal(t, 1000, store.GetInt("chunking.max_chunk_chars"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.min_score", 0.25))
	assert.InDelta(t, 0.25, store.GetFloat("retrieval.min_score"), 1e-9)

	assert.Zero(t, store.GetFloat("nonexistent"))

	// Whole numbers written as ints still read as floats
	require.NoError(t, store.Set("synthesis.temperature", 1))
	require.NoError(t, store.Load())
	assert.InDelta(t, 1.0, store.GetFloat("synthesis.temperature"), 1e-9)
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("watch.enabled", true))
	assert.True(t, store.GetBool("watch.enabled"))

	assert.False(t, store.GetBool("nonexistent"))

	require.NoError(t, store.Set("string_key", "true"))
	assert.False(t, store.GetBool("string_key"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("ingest.formats", []string{"pdf", "docx", "txt"}))
	assert.Equal(t, []string{"pdf", "docx", "txt"}, store.GetStringSlice("ingest.formats"))

	assert.Nil(t, store.GetStringSlice("nonexistent"))

	// TOML round-trip turns arrays into []any
	require.NoError(t, store.Load())
	assert.Equal(t, []string{"pdf", "docx", "txt"}, store.GetStringSlice("ingest.formats"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	content := `
[ai]
provider = "ollama"
model = "llama3.2"

[retrieval]
top_k = 3
min_score = 0.25
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("ai.provider"))
	assert.Equal(t, "llama3.2", store.GetString("ai.model"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 0.25, store.GetFloat("retrieval.min_score"), 1e-9)
}

func TestConfigStore_LoadMissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// No file on disk yet
	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_SaveWritesRestrictedPermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
