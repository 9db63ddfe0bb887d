package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions_CatalogOrder(t *testing.T) {
	defs := Definitions()

	require.Len(t, defs, 6)
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{
		ToolGetPersonalInfo,
		ToolGetWorkExperience,
		ToolGetEducation,
		ToolGetSkills,
		ToolSearchCV,
		ToolSendEmail,
	}, names)
}

func TestDefinitions_IdempotentAcrossCalls(t *testing.T) {
	first := Definitions()
	second := Definitions()

	assert.Equal(t, first, second)
}

func TestDefinitions_ReturnsCopy(t *testing.T) {
	defs := Definitions()
	defs[0].Name = "mutated"

	fresh := Definitions()
	assert.Equal(t, ToolGetPersonalInfo, fresh[0].Name)
}

func TestDefinitions_ReadOnlyFlags(t *testing.T) {
	for _, def := range Definitions() {
		if def.Name == ToolSendEmail {
			assert.False(t, def.ReadOnly, "send_email has side effects")
		} else {
			assert.True(t, def.ReadOnly, "%s is a pure reader", def.Name)
		}
	}
}

func TestDefinitions_DeclareRequiredFields(t *testing.T) {
	search, ok := Lookup(ToolSearchCV)
	require.True(t, ok)
	assert.Equal(t, []string{"query"}, search.Parameters["required"])

	send, ok := Lookup(ToolSendEmail)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"recipient", "subject", "body"}, send.Parameters["required"])
}

func TestDefinitions_EveryToolHasDescription(t *testing.T) {
	for _, def := range Definitions() {
		assert.NotEmpty(t, def.Description, "tool %s", def.Name)
		assert.Equal(t, "object", def.Parameters["type"], "tool %s", def.Name)
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(ToolGetSkills)
	require.True(t, ok)
	assert.Equal(t, ToolGetSkills, def.Name)

	_, ok = Lookup("drop_database")
	assert.False(t, ok)
}
