package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect establishes a MongoDB connection and pings the primary with
// exponential backoff until the store is reachable or the context ends.
// Transient connection loss after startup is handled by the driver's pool.
func Connect(ctx context.Context, logger *zerolog.Logger, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	backoff := retry.NewExponential(time.Second)
	backoff = retry.WithCappedDuration(30*time.Second, backoff)

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			logger.Warn().Err(err).Msg("mongodb not reachable, retrying")
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("database", dbName).Msg("mongodb connected")

	return client.Database(dbName), nil
}
