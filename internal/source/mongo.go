package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/records"
)

const (
	defaultDatabase = "listctl"
	connectTimeout  = 10 * time.Second
)

// MongoFetcher reads a dataset from a MongoDB collection, ordered by _id.
// The collection defaults to the kind name and the database to "listctl".
type MongoFetcher struct {
	URI        string
	Database   string
	Collection string
	Kind       records.Kind
}

type groupDoc struct {
	ID        interface{} `bson:"_id"`
	Name      string      `bson:"name"`
	Status    string      `bson:"status"`
	Members   int         `bson:"members"`
	CreatedAt time.Time   `bson:"created_at,omitempty"`
}

type flowDoc struct {
	ID         interface{} `bson:"_id"`
	Name       string      `bson:"name"`
	Status     string      `bson:"status"`
	Categories []string    `bson:"categories,omitempty"`
	UpdatedAt  time.Time   `bson:"updated_at,omitempty"`
}

// Fetch implements Fetcher.
func (f *MongoFetcher) Fetch(ctx context.Context) ([]records.Record, error) {
	start := time.Now()
	var recs []records.Record

	err := f.withCollection(ctx, func(coll *mongo.Collection) error {
		cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return fmt.Errorf("querying %s: %w", f.Describe(), err)
		}
		defer func() { _ = cur.Close(ctx) }()

		switch f.Kind {
		case records.KindGroups:
			var docs []groupDoc
			if err = cur.All(ctx, &docs); err != nil {
				return fmt.Errorf("decoding %s: %w", f.Describe(), err)
			}
			recs = make([]records.Record, 0, len(docs))
			for _, d := range docs {
				recs = append(recs, records.FromGroup(records.BroadcastGroup{
					ID: idString(d.ID), Name: d.Name, Status: d.Status, Members: d.Members, CreatedAt: d.CreatedAt,
				}))
			}
		case records.KindFlows:
			var docs []flowDoc
			if err = cur.All(ctx, &docs); err != nil {
				return fmt.Errorf("decoding %s: %w", f.Describe(), err)
			}
			recs = make([]records.Record, 0, len(docs))
			for _, d := range docs {
				recs = append(recs, records.FromFlow(records.Flow{
					ID: idString(d.ID), Name: d.Name, Status: d.Status, Categories: d.Categories, UpdatedAt: d.UpdatedAt,
				}))
			}
		default:
			return fmt.Errorf("%w: %q", records.ErrUnknownKind, f.Kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recs, err = records.Normalize(recs)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug().Ctx(ctx).
		Str("component", "source").
		Str("source", f.Describe()).
		Int("records", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("dataset queried")
	return recs, nil
}

// Delete implements Deleter. IDs that look like ObjectIDs match either form.
func (f *MongoFetcher) Delete(ctx context.Context, id string) error {
	return f.withCollection(ctx, func(coll *mongo.Collection) error {
		ids := bson.A{id}
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			ids = append(ids, oid)
		}
		if _, err := coll.DeleteOne(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("deleting %s from %s: %w", id, f.Describe(), err)
		}
		return nil
	})
}

func (f *MongoFetcher) withCollection(ctx context.Context, fn func(*mongo.Collection) error) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(f.URI).SetConnectTimeout(connectTimeout))
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", f.Describe(), err)
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	return fn(client.Database(f.database()).Collection(f.collection()))
}

func (f *MongoFetcher) database() string {
	if f.Database != "" {
		return f.Database
	}
	return defaultDatabase
}

func (f *MongoFetcher) collection() string {
	if f.Collection != "" {
		return f.Collection
	}
	return string(f.Kind)
}

// Describe implements Fetcher.
func (f *MongoFetcher) Describe() string {
	return fmt.Sprintf("%s/%s.%s", strings.TrimSuffix(redact(f.URI), "/"), f.database(), f.collection())
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}
