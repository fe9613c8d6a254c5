package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum/vellum/editor-go/internal/interaction"
)

func TestMessageEnvelope(t *testing.T) {
	payload, err := json.Marshal(SelectionSetPayload{IDs: []string{"a", "b"}})
	require.NoError(t, err)

	data, err := json.Marshal(Message{
		Type:       TypeSelectionSet,
		DocumentID: "doc_123",
		Payload:    payload,
	})
	require.NoError(t, err)

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, TypeSelectionSet, back.Type)
	assert.Equal(t, "doc_123", back.DocumentID)

	var sel SelectionSetPayload
	require.NoError(t, json.Unmarshal(back.Payload, &sel))
	assert.Equal(t, []string{"a", "b"}, sel.IDs)
}

func TestMenuItemInfos(t *testing.T) {
	items := []interaction.MenuItem{
		{ID: "edit.delete", Label: "Delete", Disabled: true},
		{ID: "edit.duplicate", Label: "Duplicate"},
	}
	infos := menuItemInfos(items)
	require.Len(t, infos, 2)
	assert.Equal(t, "edit.delete", infos[0].ID)
	assert.True(t, infos[0].Disabled)
	assert.False(t, infos[1].Disabled)

	assert.Empty(t, menuItemInfos(nil))
}
