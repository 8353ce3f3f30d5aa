package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountd/internal/common"
)

func seeded(t *testing.T, usernames ...string) *InMemoryRepository {
	t.Helper()
	repo := NewInMemoryRepository()
	for i, u := range usernames {
		a := New()
		a.Username = u
		a.Email = u + "@example.com"
		a.PasswordHash = []byte("hash")
		a.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		if _, err := repo.Save(context.Background(), a); err != nil {
			t.Fatalf("seed save error: %v", err)
		}
	}
	return repo
}

func TestInMemory_SaveAssignsID(t *testing.T) {
	repo := NewInMemoryRepository()

	a := New()
	a.Username = "johnsmith"

	saved, err := repo.Save(context.Background(), a)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected assigned ID")
	}
}

func TestInMemory_SaveEnforcesUniqueUsername(t *testing.T) {
	repo := seeded(t, "johnsmith")

	dup := New()
	dup.Username = "johnsmith"

	_, err := repo.Save(context.Background(), dup)
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("want ErrDuplicateUsername, got %v", err)
	}

	var storeErr *common.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("want StoreError wrapper, got %T", err)
	}
}

func TestInMemory_UpdateKeepsOwnUsername(t *testing.T) {
	repo := seeded(t, "johnsmith")
	ctx := context.Background()

	a, err := repo.FindOneBy(ctx, Filter{Username: String("johnsmith")})
	if err != nil {
		t.Fatalf("FindOneBy error: %v", err)
	}

	a.Email = "new@example.com"
	if _, err := repo.Save(ctx, a); err != nil {
		t.Fatalf("update must not conflict with itself: %v", err)
	}
}

func TestInMemory_FindOneByAbsent(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.FindOneBy(context.Background(), Filter{Username: String("ghost")})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInMemory_FindManyBy_FilterOrderPaginate(t *testing.T) {
	repo := seeded(t, "alice", "bob", "carol", "dave")
	ctx := context.Background()

	all, err := repo.FindManyBy(ctx, Filter{}, []Order{{Field: OrderByUsername}}, 0, 0)
	if err != nil {
		t.Fatalf("FindManyBy error: %v", err)
	}
	if len(all) != 4 || all[0].Username != "alice" || all[3].Username != "dave" {
		t.Fatalf("unexpected ordering: %v", usernames(all))
	}

	desc, err := repo.FindManyBy(ctx, Filter{}, []Order{{Field: OrderByUsername, Desc: true}}, 2, 0)
	if err != nil {
		t.Fatalf("FindManyBy error: %v", err)
	}
	if len(desc) != 2 || desc[0].Username != "dave" || desc[1].Username != "carol" {
		t.Fatalf("unexpected page: %v", usernames(desc))
	}

	page, err := repo.FindManyBy(ctx, Filter{}, []Order{{Field: OrderByUsername}}, 2, 3)
	if err != nil {
		t.Fatalf("FindManyBy error: %v", err)
	}
	if len(page) != 1 || page[0].Username != "dave" {
		t.Fatalf("unexpected offset page: %v", usernames(page))
	}

	enabled := Bool(true)
	filtered, err := repo.FindManyBy(ctx, Filter{Enabled: enabled}, nil, 0, 0)
	if err != nil {
		t.Fatalf("FindManyBy error: %v", err)
	}
	if len(filtered) != 4 {
		t.Fatalf("expected all enabled accounts, got %d", len(filtered))
	}
}

func TestInMemory_RemoveAbsent(t *testing.T) {
	repo := NewInMemoryRepository()

	err := repo.Remove(context.Background(), &Account{ID: "ghost"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInMemory_ClonesOnRead(t *testing.T) {
	repo := seeded(t, "alice")
	ctx := context.Background()

	a, err := repo.FindOneBy(ctx, Filter{Username: String("alice")})
	if err != nil {
		t.Fatalf("FindOneBy error: %v", err)
	}
	a.Email = "mutated@example.com"

	b, err := repo.FindOneBy(ctx, Filter{Username: String("alice")})
	if err != nil {
		t.Fatalf("FindOneBy error: %v", err)
	}
	if b.Email == "mutated@example.com" {
		t.Fatal("stored account mutated through a returned copy")
	}
}

func usernames(list []*Account) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Username
	}
	return out
}
