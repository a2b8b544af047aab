package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a single Mongo session transaction. The
// context handed to fn is the session context, so every repository call made
// with it participates in the same transaction. Reconciliation uses one
// transaction per subscription so a failure rolls back only that
// subscription's changes.
func WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := MongoClient.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
