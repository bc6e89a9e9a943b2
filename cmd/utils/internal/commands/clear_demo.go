package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// ClearDemo removes every document belonging to the demo scope: programmed
// weeks, templates and the combination pool, plus the seed markers so the
// seeds can run again.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Clearing demo data...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")
	db := client.Database(dbName)

	scopeFilter := bson.M{"scope_id": menu.DefaultScopeID}

	for _, name := range []string{"week_programs", "program_templates", "combinations"} {
		result, err := db.Collection(name).DeleteMany(ctx, scopeFilter)
		if err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		logger.Info("Cleared collection", "collection", name, "deleted", result.DeletedCount)
	}

	if _, err := db.Collection("_seeds").DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear seed markers: %w", err)
	}

	return nil
}
