// Package mongostore keeps each collection in a MongoDB collection of the
// same name and drives subscriptions from change streams. Batch inserts
// and change streams both need a replica set deployment.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"floor-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// createdField orders documents that have no explicit sort
const createdField = "_createdAt"

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zap.Logger
}

// Connect dials uri and pings the deployment before returning
func Connect(ctx context.Context, uri, database string, log *zap.Logger) (*Store, error) {
	log = log.Named("mongostore")
	log.Info("connecting to MongoDB", zap.String("database", database))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo is not reachable: %w", err)
	}

	return &Store{Client: client, DB: client.Database(database), log: log}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := store.NewID()
	if _, err := s.DB.Collection(collection).InsertOne(ctx, toBSON(id, fields)); err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return id, nil
}

// CreateMany inserts every document inside one transaction
func (s *Store) CreateMany(ctx context.Context, collection string, docs []map[string]any) ([]string, error) {
	ids := make([]string, 0, len(docs))
	batch := make([]any, 0, len(docs))
	for _, fields := range docs {
		id := store.NewID()
		ids = append(ids, id)
		batch = append(batch, toBSON(id, fields))
	}
	if len(batch) == 0 {
		return ids, nil
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return s.DB.Collection(collection).InsertMany(sc, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("batch insert %s: %w", collection, err)
	}
	return ids, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var raw bson.M
	err := s.DB.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	doc := fromBSON(raw)
	return &doc, nil
}

func (s *Store) Find(ctx context.Context, q store.Query) ([]store.Document, error) {
	cursor, err := s.DB.Collection(q.Collection).Find(ctx, buildFilter(q), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", q.Collection, err)
	}
	defer cursor.Close(ctx)

	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", q.Collection, err)
	}

	docs := make([]store.Document, 0, len(rows))
	for _, raw := range rows {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

// Update merges fields into the stored document
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.DB.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.DB.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Subscribe opens a change stream on the collection. Any change triggers a
// refetch of the full query.
func (s *Store) Subscribe(ctx context.Context, q store.Query) (*store.Subscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := s.DB.Collection(q.Collection).Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", q.Collection, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			select {
			case changes <- struct{}{}:
			default:
			}
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			s.log.Warn("change stream ended", zap.String("collection", q.Collection), zap.Error(err))
		}
	}()

	fetch := func(ctx context.Context) ([]store.Document, error) {
		return s.Find(ctx, q)
	}
	return store.Watch(ctx, s.log, fetch, changes, cancel), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Client.Disconnect(ctx); err != nil {
		s.log.Warn("disconnect failed", zap.Error(err))
	}
}
