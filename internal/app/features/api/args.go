// internal/app/features/api/args.go
package api

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/domain/apperr"
)

// argID decodes a required ObjectID argument.
func argID(args map[string]interface{}, key string) (primitive.ObjectID, error) {
	raw, _ := args[key].(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(key, "is not a valid id")
	}
	return id, nil
}

// optID decodes an optional ObjectID argument; absent or null means nil.
func optID(args map[string]interface{}, key string) (*primitive.ObjectID, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, _ := raw.(string)
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, apperr.Validation(key, "is not a valid id")
	}
	return &id, nil
}

// optIDPatch decodes an optional ObjectID argument distinguishing
// "absent" (nil) from "explicit null" (pointer to nil) from "set"
// (pointer to id), the convention patch structs use for detach.
func optIDPatch(args map[string]interface{}, key string) (**primitive.ObjectID, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	if raw == nil {
		var null *primitive.ObjectID
		return &null, nil
	}
	s, _ := raw.(string)
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, apperr.Validation(key, "is not a valid id")
	}
	ptr := &id
	return &ptr, nil
}

// argIDs decodes a required list of ObjectIDs.
func argIDs(args map[string]interface{}, key string) ([]primitive.ObjectID, error) {
	raw, _ := args[key].([]interface{})
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, item := range raw {
		s, _ := item.(string)
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.Validation(key, "contains an invalid id")
		}
		out = append(out, id)
	}
	return out, nil
}

func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func optString(args map[string]interface{}, key string) *string {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	s, _ := raw.(string)
	return &s
}

func argFloat(args map[string]interface{}, key string) float64 {
	f, _ := args[key].(float64)
	return f
}

func optFloat(args map[string]interface{}, key string) *float64 {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	f, _ := raw.(float64)
	return &f
}

func argBool(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func argTime(args map[string]interface{}, key string) time.Time {
	t, _ := args[key].(time.Time)
	return t
}

func optTime(args map[string]interface{}, key string) *time.Time {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	t, ok := raw.(time.Time)
	if !ok {
		return nil
	}
	return &t
}

// hexIDs renders an ObjectID set for the wire.
func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
