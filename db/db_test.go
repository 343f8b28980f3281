package db

import (
	"testing"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		for _, k := range ka.Keys {
			if item, ok := f.items[*k["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestScoreStoreRoundTrip(t *testing.T) {
	store := NewScoreStoreWithClient(newFakeDynamo(), "scores")

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("abc", "MML@c,d,e;"))
	s, ok, err := store.Get("abc")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal("MML@c,d,e;", s)

	many, err := store.GetMany([]string{"abc", "nope"})
	require.NoError(t, err)
	assert.Equal(map[string]string{"abc": "MML@c,d,e;"}, many)
}

func TestGetManyRejectsLargeBatches(t *testing.T) {
	store := NewScoreStoreWithClient(newFakeDynamo(), "scores")
	_, err := store.GetMany(make([]string, maxBatchKeys+1))
	assert.Error(t, err)
}

func TestKeyDependsOnOptions(t *testing.T) {
	data := []byte("MThd")
	assert := assert.New(t)
	assert.Equal(Key(data, "players=1"), Key(data, "players=1"))
	assert.NotEqual(Key(data, "players=1"), Key(data, "players=2"))
	assert.Len(Key(data, ""), 64)
}

func TestMemoryStore(t *testing.T) {
	var c Cache = NewMemoryStore()
	require.NoError(t, c.Put("k", "v"))
	v, ok, err := c.Get("k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCachesLookUpManyKeys(t *testing.T) {
	for name, c := range map[string]Cache{
		"memory": NewMemoryStore(),
		"dynamo": NewScoreStoreWithClient(newFakeDynamo(), "scores"),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Put("a", "MML@c,,;"))
			require.NoError(t, c.Put("b", "MML@d,,;"))

			many, err := c.GetMany([]string{"a", "b", "missing"})
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"a": "MML@c,,;", "b": "MML@d,,;"}, many)

			_, err = c.GetMany(make([]string, maxBatchKeys+1))
			assert.Error(t, err)
		})
	}
}
