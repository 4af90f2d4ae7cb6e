package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublicID(t *testing.T) {
	id, err := NewPublicID("proj")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "proj-"), "got %s", id)

	other, err := NewPublicID("proj")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
