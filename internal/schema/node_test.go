package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewNode_UnmarshalNested(t *testing.T) {
	raw := `{
		"type": "region",
		"name": "Main",
		"config": {"heading": "Details"},
		"children": [
			{"type": "TextInput", "config": {"value": ".Name", "label": "Name", "required": "true"}},
			{"type": "reference", "config": {"type": "view", "name": "SubView"}}
		]
	}`

	var node ViewNode
	require.NoError(t, json.Unmarshal([]byte(raw), &node))
	assert.Equal(t, "region", node.Type)
	assert.Equal(t, "Details", node.Config.Heading)
	require.Len(t, node.Children, 2)
	assert.True(t, node.Children[0].Config.Required.Bool())
	assert.Equal(t, "SubView", node.Children[1].Config.Name)
}

func TestViewNode_UnmarshalMalformed(t *testing.T) {
	var node ViewNode
	err := json.Unmarshal([]byte(`{"children": "not-a-list"}`), &node)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSchema)
}

func TestFlexBool_Shapes(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`"true"`, true},
		{`"TRUE"`, true},
		{`"false"`, false},
		{`1`, true},
		{`0`, false},
		{`"@E .pyTemplateInputBox"`, false},
	}
	for _, tc := range cases {
		var f FlexBool
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, f.Bool(), tc.raw)
	}
}

func TestDataSourceSpec_StringAndObject(t *testing.T) {
	var bare DataSourceSpec
	require.NoError(t, json.Unmarshal([]byte(`"D_Types"`), &bare))
	assert.Equal(t, "D_Types", bare.Name)
	assert.Empty(t, bare.Fields.Key)

	var full DataSourceSpec
	raw := `{"name": "D_Types", "fields": {"key": "ID", "text": "Label"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &full))
	assert.Equal(t, "D_Types", full.Name)
	assert.Equal(t, "ID", full.Fields.Key)
	assert.Equal(t, "Label", full.Fields.Text)
}
