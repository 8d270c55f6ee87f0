package api

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestArgIDRejectsGarbage(t *testing.T) {
	_, err := argID(map[string]interface{}{"id": "not-a-hex-id"}, "id")
	require.Error(t, err)

	_, err = argID(map[string]interface{}{}, "id")
	require.Error(t, err)
}

func TestOptIDPatchDistinguishesAbsentNullAndSet(t *testing.T) {
	patch, err := optIDPatch(map[string]interface{}{}, "sprintId")
	require.NoError(t, err)
	require.Nil(t, patch, "absent key must leave the field alone")

	patch, err = optIDPatch(map[string]interface{}{"sprintId": nil}, "sprintId")
	require.NoError(t, err)
	require.NotNil(t, patch, "explicit null must request a detach")
	require.Nil(t, *patch)

	id := primitive.NewObjectID()
	patch, err = optIDPatch(map[string]interface{}{"sprintId": id.Hex()}, "sprintId")
	require.NoError(t, err)
	require.NotNil(t, patch)
	require.Equal(t, id, **patch)
}

func TestOptIDRejectsGarbage(t *testing.T) {
	_, err := optID(map[string]interface{}{"projectId": "zz"}, "projectId")
	require.Error(t, err)

	got, err := optID(map[string]interface{}{}, "projectId")
	require.NoError(t, err)
	require.Nil(t, got)
}
