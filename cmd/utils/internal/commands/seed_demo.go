package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// SeedDemo loads the sample combination pool and programs the current week
// for the demo scope so the back office has something to show right away.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")
	db := client.Database(dbName)

	tracker := seed.NewMongoTracker(db)
	if err := seed.Apply(ctx, tracker, menu.Seeds(db), "menuprog-utils"); err != nil {
		return fmt.Errorf("apply seeds: %w", err)
	}
	logger.Info("Sample combination pool seeded")

	if err := seedDemoWeek(ctx, db, logger); err != nil {
		return fmt.Errorf("seed demo week: %w", err)
	}

	return nil
}

// seedDemoWeek programs the current week by spreading the seeded pool across
// the seven days, two combinations per day round-robin.
func seedDemoWeek(ctx context.Context, db *mongo.Database, logger apt.Logger) error {
	combos := db.Collection("combinations")

	cursor, err := combos.Find(ctx, bson.M{"scope_id": menu.DefaultScopeID})
	if err != nil {
		return fmt.Errorf("load combination pool: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Combination menu.Combination `bson:"combination"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("decode combination pool: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no combinations seeded for the demo scope")
	}

	weekStart := menu.MondayOf(time.Now())
	days := make(map[menu.Weekday][]uuid.UUID, len(menu.Weekdays))
	next := 0
	for _, day := range menu.Weekdays {
		ids := make([]uuid.UUID, 0, 2)
		for i := 0; i < 2; i++ {
			ids = append(ids, docs[next%len(docs)].Combination.ID)
			next++
		}
		days[day] = ids
	}

	now := time.Now()
	filter := bson.M{"scope_id": menu.DefaultScopeID, "week_start": weekStart}
	update := bson.M{
		"$set": bson.M{
			"week_end":   weekStart.AddDate(0, 0, 6),
			"days":       days,
			"status":     menu.WeekDraft,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"scope_id":   menu.DefaultScopeID,
			"week_start": weekStart,
			"created_at": now,
		},
	}

	weeks := db.Collection("week_programs")
	if _, err := weeks.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert demo week: %w", err)
	}

	logger.Info("Demo week programmed", "week_start", weekStart.Format(menu.WeekKeyLayout))
	return nil
}
