package source_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seedMongo inserts two groups out of _id order and drops the collection
// when the test ends.
func seedMongo(ctx context.Context, t *testing.T, uri, db, coll string) {
	t.Helper()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	c := client.Database(db).Collection(coll)
	_, err = c.InsertMany(ctx, []interface{}{
		bson.M{"_id": "g2", "name": "VIP", "status": "archived", "members": 9},
		bson.M{"_id": "g1", "name": "Promo", "status": "active", "members": 3},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
}
