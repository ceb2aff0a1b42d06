package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	rows, err := parseRows("6, 9,10,,13")
	require.NoError(t, err)
	assert.Equal(t, []int{6, 9, 10, 13}, rows)

	_, err = parseRows("6,x")
	assert.Error(t, err)
}
