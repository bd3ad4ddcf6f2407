// internal/app/lifecycle/winner.go
package lifecycle

import "go.mongodb.org/mongo-driver/bson/primitive"

// Winner derives the winning house from a score pair: the higher score
// wins, a tie has no winner. This mirrors the database-side expression
// the match store applies, and is the single in-process definition used
// by stats and tests.
func Winner(score1, score2 int, house1, house2 primitive.ObjectID) *primitive.ObjectID {
	switch {
	case score1 > score2:
		return &house1
	case score2 > score1:
		return &house2
	}
	return nil
}
