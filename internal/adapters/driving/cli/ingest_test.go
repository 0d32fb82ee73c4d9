package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [file]", ingestCmd.Use)
}

func TestIngestCmd_Short(t *testing.T) {
	assert.Equal(t, "Add content to the knowledge base", ingestCmd.Short)
}

func TestIngestCmd_HasURLFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("url")
	require.NotNil(t, flag, "url flag should exist")
	assert.Equal(t, "", flag.DefValue)
}

func TestIngestCmd_HasTextFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("text")
	require.NotNil(t, flag, "text flag should exist")
}

func TestIngestCmd_HasTitleFlag(t *testing.T) {
	flag := ingestCmd.Flags().Lookup("title")
	require.NotNil(t, flag, "title flag should exist")
}

func TestIngestCmd_RequiresExactlyOneSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestIngestCmd_RejectsFileAndURLTogether(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "notes.txt", "--url", "https://example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestURL = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestIngestCmd_IngestsText(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := ingestService.(*mockIngestService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--text", "the capital of France is Paris"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestText = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "the capital of France is Paris", mock.lastText)
	assert.NotEmpty(t, mock.lastRef.ID)
	assert.Contains(t, buf.String(), "Ingested")
	assert.Contains(t, buf.String(), "3 chunks")
}

func TestIngestCmd_TextUsesTitleFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := ingestService.(*mockIngestService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--text", "some text", "--title", "My Notes"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestText = ""
		ingestTitle = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "My Notes", mock.lastRef.Title)
}

func TestIngestCmd_IngestsURL(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := ingestService.(*mockIngestService)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", "--url", "https://example.com/article"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestURL = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/article"}, mock.urls)
	assert.Contains(t, buf.String(), "https://example.com/article")
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := ingestService.(*mockIngestService)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some note content"), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest", path})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "some note content", mock.lastText)
	assert.Equal(t, "notes.txt", mock.lastRef.Title)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", filepath.Join(t.TempDir(), "missing.txt")})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestIngestCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ingestService.(*mockIngestService).err = errMockFailure

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--text", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
		ingestText = ""
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mock failure")
}
