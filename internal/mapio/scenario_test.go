package mapio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func TestParseScenarioAssignsZeroBasedLineIndexIDs(t *testing.T) {
	content := "version 1\n" +
		"1\tmymap.map\t24\t24\t0\t11\t11\t11\t17.0\n" +
		"1\tmymap.map\t24\t24\t11\t0\t22\t11\t17.0\n"
	agents, err := ParseScenario(content)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, core.Agent{ID: "0", Start: core.Cell{X: 0, Y: 11}, Goal: core.Cell{X: 11, Y: 11}}, agents[0])
	assert.Equal(t, core.Agent{ID: "1", Start: core.Cell{X: 11, Y: 0}, Goal: core.Cell{X: 22, Y: 11}}, agents[1])
}

func TestParseScenarioDoesNotShiftCoordinates(t *testing.T) {
	content := "version 1\n1\tmymap.map\t10\t10\t0\t0\t9\t9\t12.7\n"
	agents, err := ParseScenario(content)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, core.Cell{X: 0, Y: 0}, agents[0].Start)
	assert.Equal(t, core.Cell{X: 9, Y: 9}, agents[0].Goal)
}

func TestParseScenarioRejectsMissingHeader(t *testing.T) {
	_, err := ParseScenario("1\tmymap.map\t10\t10\t0\t0\t9\t9\t12.7\n")
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestParseScenarioRejectsMalformedLine(t *testing.T) {
	_, err := ParseScenario("version 1\nnot a valid line\n")
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestParseScenarioRejectsNoAgents(t *testing.T) {
	_, err := ParseScenario("version 1\n")
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestScenarioRoundTrip(t *testing.T) {
	agents := []core.Agent{
		{ID: "0", Start: core.Cell{X: 0, Y: 11}, Goal: core.Cell{X: 11, Y: 11}},
		{ID: "1", Start: core.Cell{X: 11, Y: 0}, Goal: core.Cell{X: 22, Y: 11}},
	}
	serialized := FormatScenario("mymap.map", 24, 24, agents)
	reparsed, err := ParseScenario(serialized)
	require.NoError(t, err)
	require.Len(t, reparsed, 2)
	assert.Equal(t, agents[0].Start, reparsed[0].Start)
	assert.Equal(t, agents[0].Goal, reparsed[0].Goal)
	assert.Equal(t, agents[1].Start, reparsed[1].Start)
	assert.Equal(t, agents[1].Goal, reparsed[1].Goal)
}
