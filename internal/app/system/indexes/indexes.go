// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the stores rely on.
// EnsureAll runs at startup and is idempotent; problems are aggregated
// so a partial failure is fully visible and startup can fail fast.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll reconciles every collection's index set.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db, logger); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureHouses(ctx, db, logger); err != nil {
		problems = append(problems, "houses: "+err.Error())
	}
	if err := ensureMatches(ctx, db, logger); err != nil {
		problems = append(problems, "matches: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db, logger); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, logger *zap.Logger, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		unique := false
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			if m.Options.Unique != nil {
				unique = *m.Options.Unique
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index, duplicates present", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		logger.Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.Bool("unique", unique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// isDuplicateKeyErr is a best-effort duplicate detector that works across
// MongoDB and DocumentDB.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func ensureUsers(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Login path and the registration uniqueness guarantee.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// House member listings.
		{
			Keys:    bson.D{{Key: "house_id", Value: 1}, {Key: "role", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_users_house_role_name"),
		},
	})
}

func ensureHouses(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("houses")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Case-insensitive name uniqueness via the folded field.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_houses_name_ci"),
		},
		// Leaderboard ordering.
		{
			Keys:    bson.D{{Key: "total_score", Value: -1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_houses_score_name"),
		},
	})
}

func ensureMatches(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("matches")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Status listings sorted by schedule.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "match_time", Value: 1}},
			Options: options.Index().SetName("idx_matches_status_time"),
		},
		// Conflict-window lookups on the house pair.
		{
			Keys:    bson.D{{Key: "house1_id", Value: 1}, {Key: "house2_id", Value: 1}, {Key: "match_time", Value: 1}},
			Options: options.Index().SetName("idx_matches_pair_time"),
		},
		// "Matches involving house X" on the second slot.
		{
			Keys:    bson.D{{Key: "house2_id", Value: 1}, {Key: "match_time", Value: 1}},
			Options: options.Index().SetName("idx_matches_house2_time"),
		},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	c := db.Collection("announcements")
	return ensureIndexSet(ctx, c, logger, []mongo.IndexModel{
		// Board feed: active first filter, newest first sort.
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_announcements_active_created"),
		},
		// House feed.
		{
			Keys:    bson.D{{Key: "house_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_announcements_house_created"),
		},
	})
}
