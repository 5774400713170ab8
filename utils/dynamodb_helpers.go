package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractStringList extracts a list-of-strings attribute, returning nil
// when the attribute is absent or of another type.
func ExtractStringList(item map[string]types.AttributeValue, field string) []string {
	attr, ok := item[field]
	if !ok {
		return nil
	}
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(list.Value))
	for _, entry := range list.Value {
		if s, ok := entry.(*types.AttributeValueMemberS); ok {
			values = append(values, s.Value)
		}
	}
	return values
}

// StringListContains reports whether a list-of-strings attribute
// contains the given value.
func StringListContains(item map[string]types.AttributeValue, field, value string) bool {
	for _, entry := range ExtractStringList(item, field) {
		if entry == value {
			return true
		}
	}
	return false
}
