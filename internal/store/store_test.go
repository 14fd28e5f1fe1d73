// Integration tests for the store layer. They require a running PostgreSQL
// instance with migrations applied and are skipped otherwise.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"

	"bubbles/internal/database"
	"bubbles/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects and migrates, skipping the test when Postgres is not
// reachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "bubbles")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "bubbles")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)

	db, err := database.Connect(dsn)
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// uniq returns a value namespaced to this test run so parallel or repeated
// runs don't collide.
func uniq(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestDishLifecycle(t *testing.T) {
	db := testDB(t)
	dishes := NewDishStore(db)

	category := uniq("TestCategory")

	desc := "A test dish"
	created, err := dishes.Create(&models.Dish{
		Name:        uniq("Test Dish"),
		Description: &desc,
		Price:       3500,
		Category:    category,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { dishes.DeleteByCategory(category) })

	if created.Currency != models.DefaultCurrency {
		t.Errorf("default currency: got %q, want %q", created.Currency, models.DefaultCurrency)
	}

	found, err := dishes.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.Name != created.Name {
		t.Fatalf("FindByID: got %+v", found)
	}

	discount := 3000.0
	found.DiscountPrice = &discount
	found.IsFeatured = true
	if err := dishes.Update(found); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := dishes.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after update: %v", err)
	}
	if updated.DiscountPrice == nil || *updated.DiscountPrice != discount {
		t.Errorf("discount: got %v, want %v", updated.DiscountPrice, discount)
	}
	if !updated.IsFeatured {
		t.Error("dish should be featured after update")
	}

	featured, err := dishes.Featured()
	if err != nil {
		t.Fatalf("Featured: %v", err)
	}
	var inFeatured bool
	for _, d := range featured {
		if d.ID == created.ID {
			inFeatured = true
		}
	}
	if !inFeatured {
		t.Error("updated dish missing from featured list")
	}

	if err := dishes.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := dishes.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("dish should be gone after delete")
	}
}

func TestCategoriesAreProjections(t *testing.T) {
	db := testDB(t)
	dishes := NewDishStore(db)

	category := uniq("Soups")
	t.Cleanup(func() { dishes.DeleteByCategory(category) })

	// A category with no dishes does not exist.
	n, err := dishes.CountByCategory(category)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	if n != 0 {
		t.Fatalf("fresh category should be empty, got %d", n)
	}

	for i := 0; i < 2; i++ {
		if _, err := dishes.Create(&models.Dish{
			Name:     uniq("Soup"),
			Price:    2000,
			Category: category,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	categories, err := dishes.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	var present bool
	for _, c := range categories {
		if c == category {
			present = true
		}
	}
	if !present {
		t.Errorf("category %q missing from distinct list", category)
	}

	deleted, err := dishes.DeleteByCategory(category)
	if err != nil {
		t.Fatalf("DeleteByCategory: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted: got %d, want 2", deleted)
	}

	// Removing every dish removes the category.
	categories, err = dishes.Categories()
	if err != nil {
		t.Fatalf("Categories after delete: %v", err)
	}
	for _, c := range categories {
		if c == category {
			t.Errorf("category %q should be gone after its dishes were deleted", category)
		}
	}
}

func TestSiteSettingUpsert(t *testing.T) {
	db := testDB(t)
	settings := NewSiteSettingStore(db)

	key := uniq("test_setting")
	t.Cleanup(func() { db.Exec(`DELETE FROM site_settings WHERE key = $1`, key) })

	if err := settings.Set(key, "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := settings.Set(key, "second"); err != nil {
		t.Fatalf("Set (upsert): %v", err)
	}

	got, err := settings.Get(key, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "second" {
		t.Errorf("upserted value: got %q, want %q", got, "second")
	}

	all, err := settings.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if all[key] != "second" {
		t.Errorf("All()[%q]: got %q, want %q", key, all[key], "second")
	}

	// Fallback on missing key.
	got, err = settings.Get(uniq("missing"), "fallback")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if got != "fallback" {
		t.Errorf("missing key: got %q, want %q", got, "fallback")
	}
}

func TestSiteSettingSetMany(t *testing.T) {
	db := testDB(t)
	settings := NewSiteSettingStore(db)

	k1 := uniq("batch_a")
	k2 := uniq("batch_b")
	t.Cleanup(func() {
		db.Exec(`DELETE FROM site_settings WHERE key IN ($1, $2)`, k1, k2)
	})

	if err := settings.SetMany(map[string]string{k1: "one", k2: "two"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	all, err := settings.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if all[k1] != "one" || all[k2] != "two" {
		t.Errorf("batch values: got %q/%q, want one/two", all[k1], all[k2])
	}

	// A second batch upserts rather than duplicating.
	if err := settings.SetMany(map[string]string{k1: "updated"}); err != nil {
		t.Fatalf("SetMany (upsert): %v", err)
	}
	got, err := settings.Get(k1, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "updated" {
		t.Errorf("upserted value: got %q, want %q", got, "updated")
	}
}

func TestMessageLifecycle(t *testing.T) {
	db := testDB(t)
	messages := NewMessageStore(db)
	users := NewUserStore(db)

	admin, err := users.Create(uniq("admin")+"@test.local", "password123", "Test Admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	t.Cleanup(func() { users.Delete(admin.ID) })

	msg, err := messages.Create("Ada", uniq("ada")+"@test.local", "Do you deliver to Ikeja?")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { messages.Delete(msg.ID) })

	if msg.Read {
		t.Error("new message should start unread")
	}

	if err := messages.Reply(msg.ID, "Yes, we do!", admin.ID); err != nil {
		t.Fatalf("Reply: %v", err)
	}

	replied, err := messages.FindByID(msg.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if replied.AdminReply == nil || *replied.AdminReply != "Yes, we do!" {
		t.Errorf("reply: got %v", replied.AdminReply)
	}
	if !replied.Read {
		t.Error("replying should mark the message read")
	}
	if replied.RepliedBy == nil || *replied.RepliedBy != admin.ID {
		t.Errorf("replied_by: got %v, want %v", replied.RepliedBy, admin.ID)
	}
}

func TestUserRolesAndPasswords(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	email := uniq("user") + "@test.local"
	u, err := users.Create(email, "password123", "Test User", models.RoleCustomer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { users.Delete(u.ID) })

	if !users.CheckPassword(u, "password123") {
		t.Error("correct password rejected")
	}
	if users.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}

	if err := users.SetRole(u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	promoted, err := users.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if !promoted.IsAdmin() {
		t.Error("user should be admin after SetRole")
	}

	if err := users.UpdatePassword(u.ID, "new-password-456"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	fresh, _ := users.FindByID(u.ID)
	if !users.CheckPassword(fresh, "new-password-456") {
		t.Error("new password rejected after update")
	}
	if users.CheckPassword(fresh, "password123") {
		t.Error("old password still accepted after update")
	}

	// Unknown lookups return nil, not an error.
	missing, err := users.FindByEmail(uniq("nobody") + "@test.local")
	if err != nil {
		t.Fatalf("FindByEmail missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}
