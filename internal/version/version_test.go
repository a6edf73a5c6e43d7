package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "1.2.3"
	assert.Equal(t, "relief 1.2.3 (commit unknown, built unknown)", String())
}
