// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// KV is always set. The Mongo fields are nil when the memory backend is
// selected.
type DBDeps struct {
	KV            kv.Store
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
