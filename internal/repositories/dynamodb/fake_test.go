package dynamodb

import (
	"context"
	"sort"
	"sync"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeItemAPI is an in-process stand-in for a single-key DynamoDB table
type fakeItemAPI struct {
	mu        sync.Mutex
	keyAttr   string
	items     map[string]map[string]types.AttributeValue
	err       error
	lastGet   *ddb.GetItemInput
	lastScan  *ddb.ScanInput
	putCalls  int
	scanCalls int
}

func newFakeItemAPI(keyAttr string) *fakeItemAPI {
	return &fakeItemAPI{
		keyAttr: keyAttr,
		items:   make(map[string]map[string]types.AttributeValue),
	}
}

func (f *fakeItemAPI) keyOf(key map[string]types.AttributeValue) string {
	if s, ok := key[f.keyAttr].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeItemAPI) GetItem(ctx context.Context, params *ddb.GetItemInput, optFns ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastGet = params
	if f.err != nil {
		return nil, f.err
	}
	return &ddb.GetItemOutput{Item: f.items[f.keyOf(params.Key)]}, nil
}

func (f *fakeItemAPI) PutItem(ctx context.Context, params *ddb.PutItemInput, optFns ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.err != nil {
		return nil, f.err
	}
	f.items[f.keyOf(params.Item)] = params.Item
	return &ddb.PutItemOutput{}, nil
}

func (f *fakeItemAPI) DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, optFns ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, f.keyOf(params.Key))
	return &ddb.DeleteItemOutput{}, nil
}

func (f *fakeItemAPI) Scan(ctx context.Context, params *ddb.ScanInput, optFns ...func(*ddb.Options)) (*ddb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastScan = params
	f.scanCalls++
	if f.err != nil {
		return nil, f.err
	}

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var items []map[string]types.AttributeValue
	for _, k := range keys {
		if params.Limit != nil && int32(len(items)) == *params.Limit {
			break
		}
		items = append(items, f.items[k])
	}
	return &ddb.ScanOutput{Items: items, Count: int32(len(items))}, nil
}
