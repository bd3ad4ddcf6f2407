package realtime_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusgames/meethub/internal/app/features/realtime"
	"github.com/campusgames/meethub/internal/domain/events"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// dial spins up a hub-backed test server and connects one client.
func dial(t *testing.T) (*realtime.Hub, *websocket.Conn) {
	t.Helper()

	hub := realtime.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(realtime.Routes(realtime.NewHandler(hub, zap.NewNop())))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return hub, conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return env
}

func TestHub_BroadcastsGlobalEvents(t *testing.T) {
	hub, conn := dial(t)

	// Registration races the publish; give the hub loop a beat.
	time.Sleep(50 * time.Millisecond)

	hub.Publish(events.Event{
		Name:     events.MatchStarted,
		HouseIDs: []primitive.ObjectID{primitive.NewObjectID()},
		Payload:  map[string]string{"status": "live"},
	})

	env := readEnvelope(t, conn)
	if env.Event != events.MatchStarted {
		t.Errorf("event: got %q, want %q", env.Event, events.MatchStarted)
	}
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if data["status"] != "live" {
		t.Errorf("payload: got %v", data)
	}
}

func TestHub_HouseAnnouncementReachesEveryClient(t *testing.T) {
	hub, conn := dial(t)
	houseID := primitive.NewObjectID()

	time.Sleep(50 * time.Millisecond)

	// The client never joined the house room: the announcement still
	// arrives on the global channel.
	hub.Publish(events.Event{
		Name:     events.NewAnnouncement,
		HouseIDs: []primitive.ObjectID{houseID},
		Payload:  map[string]string{"title": "house news"},
	})

	env := readEnvelope(t, conn)
	if env.Event != events.NewAnnouncement {
		t.Errorf("event: got %q, want %q", env.Event, events.NewAnnouncement)
	}
}

func TestHub_RoomMembersGetHouseChannelCopy(t *testing.T) {
	hub, conn := dial(t)
	houseID := primitive.NewObjectID()

	time.Sleep(50 * time.Millisecond)

	if err := conn.WriteJSON(map[string]string{"type": "join-house", "house": houseID.Hex()}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	hub.Publish(events.Event{
		Name:     events.NewAnnouncement,
		HouseIDs: []primitive.ObjectID{houseID},
		Payload:  map[string]string{"title": "house news"},
	})

	// One copy on the global channel, one on the house channel.
	for i := 0; i < 2; i++ {
		env := readEnvelope(t, conn)
		if env.Event != events.NewAnnouncement {
			t.Errorf("copy %d: event %q, want %q", i, env.Event, events.NewAnnouncement)
		}
	}
}

func TestHub_LeaveHouseDropsRoomCopy(t *testing.T) {
	hub, conn := dial(t)
	houseID := primitive.NewObjectID()

	time.Sleep(50 * time.Millisecond)

	if err := conn.WriteJSON(map[string]string{"type": "join-house", "house": houseID.Hex()}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := conn.WriteJSON(map[string]string{"type": "leave-house", "house": houseID.Hex()}); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	hub.Publish(events.Event{
		Name:     events.NewAnnouncement,
		HouseIDs: []primitive.ObjectID{houseID},
		Payload:  map[string]string{"title": "house news"},
	})

	// Only the global copy arrives after leaving the room.
	if env := readEnvelope(t, conn); env.Event != events.NewAnnouncement {
		t.Errorf("event: got %q, want %q", env.Event, events.NewAnnouncement)
	}
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("received a room copy after leaving the house")
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := realtime.NewHub(zap.NewNop())
	// Hub not running: the queue fills, then publishes must drop, not hang.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(events.Event{Name: events.MatchUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
