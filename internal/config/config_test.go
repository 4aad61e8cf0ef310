package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
format = "TFA"
type = "DATA"

states = ["x0", "x1"]
events = ["a"]
initial_states = ["x0"]

[[transitions]]
from = "x0"
event = "a"
to = "x1"
guard = "[0, +Inf)"
reset = "[0, 0]"
`

func TestParse_Valid(t *testing.T) {
	def, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"x0", "x1"}, def.States)
	assert.Equal(t, []string{"x0"}, def.InitialStates)
	assert.Len(t, def.Transitions, 1)
	assert.Contains(t, def.Guard, def.Transitions[0])
	assert.Contains(t, def.Reset, def.Transitions[0])
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte(`format = "OTHER"`))
	assert.Error(t, err)
}

func TestParse_BadGuard(t *testing.T) {
	doc := `
states = ["x0"]
events = ["a"]
initial_states = ["x0"]

[[transitions]]
from = "x0"
event = "a"
to = "x0"
guard = "not an interval"
`
	_, err := Parse([]byte(doc))
	assert.Error(t, err)
}

func TestParse_UnknownInitialState(t *testing.T) {
	doc := `
states = ["x0"]
events = []
initial_states = ["x9"]
`
	_, err := Parse([]byte(doc))
	assert.ErrorContains(t, err, "x9")
}

func TestParse_NoOptionalHeader(t *testing.T) {
	doc := `
states = ["x0"]
events = []
initial_states = ["x0"]
`
	def, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"x0"}, def.States)
}
