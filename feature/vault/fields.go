package vault

import (
	"stream-sync/core/utils"
)

// FieldString returns the field as a string, or "" when absent.
func FieldString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	return utils.ToString(v)
}

// FieldInt returns the field as an int, or 0 when absent or not
// numeric.
func FieldInt(fields map[string]any, key string) int {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0
	}
	return utils.ToInt(v)
}

// FieldStrings returns the field as a string slice. Scalar values
// become a one-element slice; absent fields yield nil.
func FieldStrings(fields map[string]any, key string) []string {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil
	}
	return utils.ToStringSlice(v)
}

// FieldBool returns the field as a bool, or false when absent.
func FieldBool(fields map[string]any, key string) bool {
	v, ok := fields[key]
	if !ok || v == nil {
		return false
	}
	return utils.ToBool(v)
}
