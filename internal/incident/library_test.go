package incident

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksTitleAboveTag(t *testing.T) {
	l := NewLibrary("")

	matches := l.Search("crashloop")
	require.NotEmpty(t, matches)
	// "CrashLoopBackOff" hits title, tag, and symptom on RB-001.
	assert.Equal(t, "RB-001", matches[0].ID)
}

func TestSearchTagBidirectional(t *testing.T) {
	l := NewLibrary("")

	// Query contains the tag, not the other way around.
	matches := l.Search("postgresql tuning")
	require.NotEmpty(t, matches)
	assert.Equal(t, "RB-003", matches[0].ID)
}

func TestSearchSymptomText(t *testing.T) {
	l := NewLibrary("")

	matches := l.Search("customer-facing impact")
	require.NotEmpty(t, matches)
	assert.Equal(t, "RB-005", matches[0].ID)
}

func TestSearchNoMatch(t *testing.T) {
	l := NewLibrary("")
	assert.Empty(t, l.Search("quantum flux capacitor"))
}

func TestSearchCaseInsensitive(t *testing.T) {
	l := NewLibrary("")

	matches := l.Search("CRASHLOOP")
	require.NotEmpty(t, matches)
	assert.Equal(t, "RB-001", matches[0].ID)
}

const overlayRunbook = `
id: RB-100
title: Kafka Consumer Lag
tags: [kafka, lag, consumer]
severity: medium
symptoms:
  - Consumer group lag increasing
diagnosis:
  - "1. Check consumer group offsets"
remediation:
  - Scale the consumer group
`

func TestOverlayLoading(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kafka.yaml"), []byte(overlayRunbook), 0o644))

	l := NewLibrary(dir)
	assert.Len(t, l.All(), len(builtinRunbooks)+1)

	matches := l.Search("kafka")
	require.NotEmpty(t, matches)
	assert.Equal(t, "RB-100", matches[0].ID)
}

func TestOverlayListFile(t *testing.T) {
	dir := t.TempDir()
	list := `
- id: RB-200
  title: First
  tags: [one]
- id: RB-201
  title: Second
  tags: [two]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pair.yml"), []byte(list), 0o644))

	l := NewLibrary(dir)
	assert.Len(t, l.All(), len(builtinRunbooks)+2)
}

func TestOverlaySkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(overlayRunbook), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{{{not yaml"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	l := NewLibrary(dir)
	assert.Len(t, l.All(), len(builtinRunbooks)+1)
}

func TestReloadReplacesOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kafka.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlayRunbook), 0o644))

	l := NewLibrary(dir)
	require.Len(t, l.All(), len(builtinRunbooks)+1)

	require.NoError(t, os.Remove(path))
	require.NoError(t, l.Reload())
	assert.Len(t, l.All(), len(builtinRunbooks))
}
