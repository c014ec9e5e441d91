package sitelink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://mx-test.example.com/maximo"

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	written, err := Write(dir, testOrigin+"/")
	require.NoError(t, err)
	assert.Equal(t, testOrigin, written.Origin)

	got, err := Read(dir)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testOrigin, got.Origin)
	assert.Equal(t, filepath.Join(dir, FileName), got.Path())
}

func TestWrite_RejectsBadOrigin(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, "mx-test.example.com")
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRead_Missing(t *testing.T) {
	got, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte(" \n"), 0644)
	got, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRead_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte("  "+testOrigin+" \n\n"), 0644)

	got, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, testOrigin, got.Origin)
}

func TestRead_MalformedNamesFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte("mx-test.example.com\n"), 0644)

	_, err := Read(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(dir, FileName))
	assert.Contains(t, err.Error(), "absolute http(s) URL")
}

func TestFind_ParentDir(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "sub", "deep")
	require.NoError(t, os.MkdirAll(child, 0755))
	_, err := Write(parent, testOrigin)
	require.NoError(t, err)

	l, err := Find(child)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, testOrigin, l.Origin)
	assert.Equal(t, parent, l.Dir)
}

func TestFind_MalformedNearestWins(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "sub")
	require.NoError(t, os.MkdirAll(child, 0755))
	_, err := Write(parent, testOrigin)
	require.NoError(t, err)
	os.WriteFile(filepath.Join(child, FileName), []byte("ftp://nope\n"), 0644)

	_, err = Find(child)
	assert.ErrorContains(t, err, filepath.Join(child, FileName))
}

func TestFind_NotFound(t *testing.T) {
	l, err := Find(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	removed, err := Remove(dir)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = Write(dir, testOrigin)
	require.NoError(t, err)
	removed, err = Remove(dir)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(err))
}
