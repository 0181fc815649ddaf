package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateForDisplayNoopWhenWidthUnknown(t *testing.T) {
	termWidth = 0
	require.Equal(t, "a very long line", truncateForDisplay("a very long line"))
}

func TestTruncateForDisplayClipsToWidth(t *testing.T) {
	termWidth = 10
	defer func() { termWidth = 0 }()
	got := truncateForDisplay("this is definitely longer than ten")
	require.Len(t, got, 10)
	require.Equal(t, "this is...", got)
}

func TestTruncateForDisplayLeavesShortLinesAlone(t *testing.T) {
	termWidth = 80
	defer func() { termWidth = 0 }()
	require.Equal(t, "short", truncateForDisplay("short"))
}
