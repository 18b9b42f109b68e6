package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootHasExpectedSubcommands(t *testing.T) {
	root := Root()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["version"])
	assert.True(t, names["update"])
}
