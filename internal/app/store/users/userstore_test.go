package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/app/system/indexes"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/campusgames/meethub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(testutil.TestContext(t), db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return userstore.New(db)
}

func TestCreate_NormalizesAndRejectsDuplicates(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)

	u, err := s.Create(ctx, models.User{
		Name:     "  Alex Chen  ",
		Email:    " Alex@Example.COM ",
		Password: "not-checked-here",
		Role:     "Student",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "alex@example.com" {
		t.Errorf("email = %q, want normalized lowercase", u.Email)
	}
	if u.Name != "Alex Chen" {
		t.Errorf("name = %q, want trimmed", u.Name)
	}
	if u.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", u.Role)
	}
	if !u.IsActive {
		t.Errorf("new users should be active")
	}

	// Same address, different casing.
	_, err = s.Create(ctx, models.User{
		Name:     "Impostor",
		Email:    "ALEX@example.com",
		Password: "x",
		Role:     models.RoleStudent,
	})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)

	if _, err := s.Create(ctx, models.User{
		Name: "X", Email: "x@example.com", Password: "x", Role: "superuser",
	}); err == nil {
		t.Fatal("expected role validation error")
	}
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, models.User{
		Name: "Casey", Email: "casey@example.com", Password: "x", Role: models.RoleCaptain,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetByEmail(ctx, "  CASEY@Example.com ")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("looked up wrong user")
	}

	if _, err := s.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestApplyAdminUpdate_ClearHouse(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)
	houseID := primitive.NewObjectID()

	u, err := s.Create(ctx, models.User{
		Name: "Member", Email: "member@example.com", Password: "x",
		Role: models.RoleStudent, HouseID: &houseID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.ApplyAdminUpdate(ctx, u.ID, userstore.AdminUpdate{ClearHouse: true}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	got, err := s.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HouseID != nil {
		t.Errorf("house_id = %v, want cleared", got.HouseID)
	}
}

func TestHouseCascadeHelpers(t *testing.T) {
	s := newStore(t)
	ctx := testutil.TestContext(t)
	houseID := primitive.NewObjectID()

	cap, err := s.Create(ctx, models.User{
		Name: "Captain", Email: "cap@example.com", Password: "x", Role: models.RoleStudent,
	})
	if err != nil {
		t.Fatalf("create captain: %v", err)
	}
	if err := s.AssignHouseRole(ctx, cap.ID, models.RoleCaptain, houseID); err != nil {
		t.Fatalf("assign house role: %v", err)
	}

	member, err := s.Create(ctx, models.User{
		Name: "Member", Email: "m@example.com", Password: "x",
		Role: models.RoleStudent, HouseID: &houseID,
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	members, err := s.ListByHouse(ctx, houseID)
	if err != nil {
		t.Fatalf("list by house: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	// Sort is role asc then name: "captain" < "student".
	if members[0].ID != cap.ID {
		t.Errorf("captain should sort first")
	}

	if err := s.DemoteCaptain(ctx, cap.ID, true); err != nil {
		t.Fatalf("demote captain: %v", err)
	}
	got, _ := s.GetByID(ctx, cap.ID)
	if got.Role != models.RoleStudent || got.HouseID != nil {
		t.Errorf("demoted captain = role %q house %v, want student with no house", got.Role, got.HouseID)
	}

	n, err := s.DetachHouseMembers(ctx, houseID)
	if err != nil {
		t.Fatalf("detach members: %v", err)
	}
	if n != 1 {
		t.Errorf("detached %d members, want 1", n)
	}
	got, _ = s.GetByID(ctx, member.ID)
	if got.HouseID != nil {
		t.Errorf("member still attached to house")
	}
}
