package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// numVal builds a numeric attribute value from its decimal string form.
func numVal(s string) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: s}
}

// boolVal builds a boolean attribute value.
func boolVal(b bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: b}
}

// chunkKeys splits a slice of primary keys into groups of at most n, the
// BatchWriteItem per-request limit.
func chunkKeys(keys []map[string]types.AttributeValue, n int) [][]map[string]types.AttributeValue {
	var out [][]map[string]types.AttributeValue
	for len(keys) > n {
		out = append(out, keys[:n])
		keys = keys[n:]
	}
	if len(keys) > 0 {
		out = append(out, keys)
	}
	return out
}
