package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// ErrMongoStandalone is returned for a server that cannot run transactions.
var ErrMongoStandalone = errors.New("mongo storage needs a replica set or sharded cluster (checkout runs in a transaction)")

// helloReply is the part of the hello command reply that tells the topology.
type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// supportsTransactions reports a replica set member or a mongos router.
func (h helloReply) supportsTransactions() bool {
	return h.SetName != "" || h.Msg == "isdbgrid"
}

// Mongo stores each key as one document of the "kv" collection.
// PutAll needs a replica set, since it runs inside a transaction.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("mongo storage needs a connection url")
	}
	if database == "" {
		database = "groco"
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	var hello helloReply
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to query mongo topology: %w", err)
	}
	if !hello.supportsTransactions() {
		client.Disconnect(context.Background())
		return nil, ErrMongoStandalone
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection("kv"),
	}, nil
}

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(e.Value), true, nil
}

func (m *Mongo) Put(ctx context.Context, key string, value []byte) error {
	return m.replace(ctx, key, value)
}

func (m *Mongo) replace(ctx context.Context, key string, value []byte) error {
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoEntry{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) PutAll(ctx context.Context, values map[string][]byte) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for k, v := range values {
			if err := m.replace(sc, k, v); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
