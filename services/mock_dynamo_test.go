package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the DynamoDB client. It
// supports the subset the store adapter uses: keyed get/put/delete,
// conditional put on attribute_not_exists, simple SET update
// expressions, and full-table scans.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
	pks    map[string]string
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
		pks: map[string]string{
			"Matches":    "matchId",
			"Watchlists": "watchlistId",
			"Users":      "username",
		},
	}
}

func (m *mockDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if m.tables[name] == nil {
		m.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return m.tables[name]
}

func keyValue(key map[string]types.AttributeValue) (string, error) {
	for _, attr := range key {
		if s, ok := attr.(*types.AttributeValueMemberS); ok {
			return s.Value, nil
		}
	}
	return "", errors.New("missing string key")
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := keyValue(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table(*params.TableName)[k]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk := m.pks[*params.TableName]
	keyAttr, ok := params.Item[pk].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("item missing partition key " + pk)
	}
	tbl := m.table(*params.TableName)
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := tbl[keyAttr.Value]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	tbl[keyAttr.Value] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem understands the "SET name = :val, name2 = :val2" shape the
// services emit, including #name substitutions.
func (m *mockDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := keyValue(params.Key)
	if err != nil {
		return nil, err
	}
	tbl := m.table(*params.TableName)
	item, ok := tbl[k]
	if !ok {
		item = copyItem(params.Key)
	}

	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, clause := range strings.Split(expr, ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return nil, errors.New("unsupported update expression: " + *params.UpdateExpression)
		}
		name := strings.TrimSpace(parts[0])
		if mapped, ok := params.ExpressionAttributeNames[name]; ok {
			name = mapped
		}
		ref := strings.TrimSpace(parts[1])
		value, ok := params.ExpressionAttributeValues[ref]
		if !ok {
			return nil, errors.New("missing expression value " + ref)
		}
		item[name] = value
	}

	tbl[k] = item
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []map[string]types.AttributeValue
	for _, item := range m.table(*params.TableName) {
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, err := keyValue(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.table(*params.TableName), k)
	return &dynamodb.DeleteItemOutput{}, nil
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// rawItem reads a stored item directly, for asserting persisted fields.
func (m *mockDynamo) rawItem(tableName, key string) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table(tableName)[key]
}
