package db

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

// maxBatchKeys is DynamoDB's BatchGetItem limit.
const maxBatchKeys = 100

// Cache stores rendered scores by content key.
type Cache interface {
	Get(key string) (string, bool, error)
	Put(key string, score string) error
	// GetMany returns the scores found among keys. Missing keys are absent.
	GetMany(keys []string) (map[string]string, error)
}

// Key identifies a conversion by its input bytes and options.
func Key(data []byte, options string) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(options))
	return hex.EncodeToString(h.Sum(nil))
}

type ScoreStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewScoreStore(endpoint, table string) (*ScoreStore, error) {
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating DynamoDB session")
	}
	return NewScoreStoreWithClient(dynamodb.New(session), table), nil
}

func NewScoreStoreWithClient(client dynamodbiface.DynamoDBAPI, table string) *ScoreStore {
	return &ScoreStore{client: client, table: table}
}

func keyOf(key string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(key)},
	}
}

func (s *ScoreStore) Get(key string) (string, bool, error) {
	out, err := s.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       keyOf(key),
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "getting score %s", key)
	}
	v, ok := out.Item["Score"]
	if !ok || v.S == nil {
		return "", false, nil
	}
	return *v.S, true, nil
}

func (s *ScoreStore) Put(key string, score string) error {
	item := keyOf(key)
	item["Score"] = &dynamodb.AttributeValue{S: aws.String(score)}
	item["CreatedAt"] = &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(time.Now().Unix(), 10))}
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return errors.Wrapf(err, "putting score %s", key)
}

// GetMany looks up several keys at once. Missing keys are absent from the result.
func (s *ScoreStore) GetMany(keys []string) (map[string]string, error) {
	if len(keys) > maxBatchKeys {
		return nil, errors.Errorf("at most %d keys per batch, got %d", maxBatchKeys, len(keys))
	}
	res := make(map[string]string)
	if len(keys) == 0 {
		return res, nil
	}

	var items []map[string]*dynamodb.AttributeValue
	for _, k := range keys {
		items = append(items, keyOf(k))
	}
	out, err := s.client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: items},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "batch getting scores")
	}
	for _, v := range out.Responses[s.table] {
		if v["PK"] == nil || v["PK"].S == nil || v["Score"] == nil || v["Score"].S == nil {
			continue
		}
		res[*v["PK"].S] = *v["Score"].S
	}
	return res, nil
}

// MemoryStore is a process-local Cache for when no DynamoDB endpoint is set.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[key]
	return s, ok, nil
}

func (m *MemoryStore) Put(key string, score string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[key] = score
	return nil
}

func (m *MemoryStore) GetMany(keys []string) (map[string]string, error) {
	if len(keys) > maxBatchKeys {
		return nil, errors.Errorf("at most %d keys per batch, got %d", maxBatchKeys, len(keys))
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make(map[string]string)
	for _, k := range keys {
		if s, ok := m.scores[k]; ok {
			res[k] = s
		}
	}
	return res, nil
}
