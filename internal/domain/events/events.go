// internal/domain/events/events.go

// Package events defines the domain-event values emitted after committed
// mutations and the Publisher seam the lifecycle engine and feature
// handlers use to emit them. The realtime hub is the production Publisher;
// tests use Nop or a recording fake.
package events

import "go.mongodb.org/mongo-driver/bson/primitive"

// Event names carried to subscribed clients.
const (
	MatchUpdate     = "match-update"
	MatchStarted    = "match-started"
	MatchFinished   = "match-finished"
	NewAnnouncement = "new-announcement"
)

// Event is a named domain event carrying the full updated record.
//
// Every event reaches every connected client on the global channel.
// HouseIDs name the houses involved; clients who joined those house
// rooms receive the event on the house channel as well.
type Event struct {
	Name     string
	HouseIDs []primitive.ObjectID
	Payload  any
}

// Publisher fans an event out to subscribers. Delivery is best-effort:
// implementations must not block and must never return delivery failures
// to the caller.
type Publisher interface {
	Publish(ev Event)
}

// Nop is a Publisher that discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(Event) {}
