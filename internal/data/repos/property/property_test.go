package property

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/OwaisIslam/living-real/internal/data/repos/testutil"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestPropertyRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPropertyRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.Property{{
		Name:          "Maple Court",
		StreetAddress: "12 Maple Ct",
		Rent:          "1200",
		Amenities:     datatypes.JSONSlice[string]{"parking", "laundry"},
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}

	got, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Maple Court" || len(got[0].Amenities) != 2 {
		t.Fatalf("GetByIDs: unexpected result: %+v", got)
	}

	exists, err := repo.Exists(dbc, uuid.New())
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("Exists: expected false for random id")
	}
}

func TestPropertyRepoOccupantSetSemantics(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPropertyRepo(db, testutil.Logger(t))

	p := testutil.SeedProperty(t, ctx, tx, "Oak", "800")
	u := testutil.SeedUser(t, ctx, tx, "occupant@example.com", types.RoleTenant)

	for i := 0; i < 2; i++ {
		if err := repo.AddOccupant(dbc, p.ID, u.ID); err != nil {
			t.Fatalf("AddOccupant #%d: %v", i, err)
		}
	}
	rows, err := repo.ListOccupants(dbc)
	if err != nil {
		t.Fatalf("ListOccupants: %v", err)
	}
	count := 0
	for _, r := range rows {
		if r.PropertyID == p.ID && r.UserID == u.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one occupant row, got %d", count)
	}

	got, err := repo.GetByIDs(dbc, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got[0].Occupants) != 1 || got[0].Occupants[0].ID != u.ID {
		t.Fatalf("expected resolved occupant, got %+v", got[0].Occupants)
	}

	for i := 0; i < 2; i++ {
		if err := repo.RemoveOccupant(dbc, p.ID, u.ID); err != nil {
			t.Fatalf("RemoveOccupant #%d: %v", i, err)
		}
	}
	got, err = repo.GetByIDs(dbc, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got[0].Occupants) != 0 {
		t.Fatalf("expected no occupants, got %+v", got[0].Occupants)
	}
}

func TestPropertyRepoUpdateFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPropertyRepo(db, testutil.Logger(t))

	p := testutil.SeedProperty(t, ctx, tx, "Pine", "700")
	ok, err := repo.UpdateFields(dbc, p.ID, map[string]any{"rent": "750"})
	if err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateFields(dbc, uuid.New(), map[string]any{"rent": "750"})
	if err != nil {
		t.Fatalf("UpdateFields (missing): %v", err)
	}
	if ok {
		t.Fatalf("UpdateFields (missing): expected false")
	}
	got, err := repo.GetByIDs(dbc, []uuid.UUID{p.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if got[0].Rent != "750" || got[0].Name != "Pine" {
		t.Fatalf("unexpected row after update: %+v", got[0])
	}
}

func TestPropertyRepoDeleteKeepsUserReference(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPropertyRepo(db, testutil.Logger(t))

	p := testutil.SeedProperty(t, ctx, tx, "Birch", "1000")
	u := testutil.SeedUser(t, ctx, tx, "birch@example.com", types.RoleTenant)
	testutil.SeedOccupancy(t, ctx, tx, u.ID, p.ID, true, true)

	deleted, err := repo.DeleteByID(dbc, p.ID)
	if err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if deleted == nil || deleted.ID != p.ID || len(deleted.Occupants) != 1 {
		t.Fatalf("DeleteByID: unexpected result: %+v", deleted)
	}

	rows, err := repo.ListOccupants(dbc)
	if err != nil {
		t.Fatalf("ListOccupants: %v", err)
	}
	for _, r := range rows {
		if r.PropertyID == p.ID {
			t.Fatalf("occupant rows of a deleted property must be gone")
		}
	}

	var reloaded types.User
	if err := tx.Where("id = ?", u.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.PropertyID == nil || *reloaded.PropertyID != p.ID {
		t.Fatalf("user occupancy should still point at the deleted property, got %v", reloaded.PropertyID)
	}

	again, err := repo.DeleteByID(dbc, p.ID)
	if err != nil || again != nil {
		t.Fatalf("DeleteByID (again): got %+v err=%v", again, err)
	}
}
