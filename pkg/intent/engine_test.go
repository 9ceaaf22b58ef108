package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeflow-dev/taskforge/pkg/model"
)

func TestFromConfigCompilesActivePatterns(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{
		"create_project": {`^create project`},
		"unknown_intent": {`whatever`}, // not a valid Intent, dropped
	})
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, model.IntentCreateProject, patterns[0].Intent)
	assert.True(t, patterns[0].Active)
}

func TestFromConfigRejectsBadRegex(t *testing.T) {
	_, err := FromConfig(map[string][]string{
		"create_project": {`(unclosed`},
	})
	assert.Error(t, err)
}

func TestEngineMatchBasic(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{
		"create_project": {`^create project`},
		"list_projects":  {`^list projects`},
	})
	require.NoError(t, err)
	engine := New(patterns)

	matches := engine.Match("Create project \"Widget Factory\"")
	require.NotEmpty(t, matches)
	assert.Equal(t, model.IntentCreateProject, matches[0].Intent)
	assert.GreaterOrEqual(t, matches[0].Confidence, 0.3)
}

func TestEngineMatchExtractsProjectNameEntity(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{"create_project": {`^create project`}})
	require.NoError(t, err)
	engine := New(patterns)

	matches := engine.Match(`create project "Widget Factory"`)
	require.NotEmpty(t, matches)
	found := false
	for _, ent := range matches[0].Entities {
		if ent.Type == "project_name" && ent.Value == "Widget Factory" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEngineMatchGenericEntities(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{"create_task": {`^create task`}})
	require.NoError(t, err)
	engine := New(patterns)

	matches := engine.Match("create task #urgent for sprint 12")
	require.NotEmpty(t, matches)
	var tagFound, intFound bool
	for _, ent := range matches[0].Entities {
		if ent.Type == "tag" && ent.Value == "urgent" {
			tagFound = true
		}
		if ent.Type == "integer" && ent.Value == "12" {
			intFound = true
		}
	}
	assert.True(t, tagFound)
	assert.True(t, intFound)
}

func TestEngineMatchFiltersBelowMinConfidence(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{"get_help": {`help`}})
	require.NoError(t, err)
	engine := New(patterns)
	engine.MinConfidence = 0.95

	matches := engine.Match("can you help me out")
	assert.Empty(t, matches)
}

func TestEngineMatchSortedDescending(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{
		"get_help":    {`^help`},
		"list_tasks":  {`^help me list tasks`},
	})
	require.NoError(t, err)
	engine := New(patterns)

	matches := engine.Match("help me list tasks please")
	require.Len(t, matches, 2)
	assert.GreaterOrEqual(t, matches[0].Confidence, matches[1].Confidence)
}

func TestEngineMatchNoPatternsMatch(t *testing.T) {
	patterns, err := FromConfig(map[string][]string{"create_project": {`^create project`}})
	require.NoError(t, err)
	engine := New(patterns)

	assert.Empty(t, engine.Match("what is the weather today"))
}
