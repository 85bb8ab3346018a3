package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tabula/pkg/board"
)

const (
	mongoDatabase   = "tabula"
	mongoCollection = "items"
)

// mongoItem wraps an item with its board for storage. The composite key
// keeps items of different boards apart even if ids ever repeated.
type mongoItem struct {
	Key     string     `bson:"_id"`
	BoardID string     `bson:"board_id"`
	Item    board.Item `bson:"item"`
}

func mongoKey(boardID, itemID string) string {
	return boardID + "/" + itemID
}

// MongoStore keeps each item as one document in a single collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to a MongoDB server given a mongodb:// DSN and verifies
// the connection with a ping.
func OpenMongo(ctx context.Context, dsn string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) ListBoards(ctx context.Context) ([]string, error) {
	raw, err := s.coll.Distinct(ctx, "board_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MongoStore) ListItems(ctx context.Context, boardID string) ([]board.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "item.created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "board_id", Value: boardID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	items := make([]board.Item, 0)
	for cur.Next(ctx) {
		var doc mongoItem
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, doc.Item)
	}
	return items, cur.Err()
}

func (s *MongoStore) CreateItem(ctx context.Context, boardID string, it board.Item) error {
	doc := mongoItem{Key: mongoKey(boardID, it.ID), BoardID: boardID, Item: it}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("item %s: %w", it.ID, ErrExists)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error) {
	key := mongoKey(boardID, itemID)

	var doc mongoItem
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("item %s/%s: %w", boardID, itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}

	p.Apply(&doc.Item)
	if _, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: key}}, doc); err != nil {
		return nil, fmt.Errorf("store item: %w", err)
	}
	return &doc.Item, nil
}

func (s *MongoStore) DeleteItem(ctx context.Context, boardID, itemID string) error {
	_, err := s.UpdateItem(ctx, boardID, itemID, board.DeletePatch(true))
	return err
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
