package alertstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arbiscout/backend/internal/domain"
)

func alertFor(productID string, n int) *domain.Alert {
	return &domain.Alert{
		ID:        fmt.Sprintf("%s-%d", productID, n),
		ProductID: productID,
		ASIN:      "B0MEMTEST1",
		NetProfit: float64(n),
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStore_SaveAndRecent(t *testing.T) {
	t.Run("recent returns newest first", func(t *testing.T) {
		store := NewMemoryStore()
		ctx := context.Background()

		for n := 1; n <= 3; n++ {
			if err := store.Save(ctx, alertFor("p-1", n)); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
		}

		alerts, err := store.RecentByProduct(ctx, "p-1", 10)
		if err != nil {
			t.Fatalf("RecentByProduct() error = %v", err)
		}
		if len(alerts) != 3 {
			t.Fatalf("got %d alerts, want 3", len(alerts))
		}
		if alerts[0].ID != "p-1-3" || alerts[2].ID != "p-1-1" {
			t.Errorf("order = %s..%s, want newest first", alerts[0].ID, alerts[2].ID)
		}
	})

	t.Run("limit caps the result", func(t *testing.T) {
		store := NewMemoryStore()
		ctx := context.Background()

		for n := 1; n <= 5; n++ {
			store.Save(ctx, alertFor("p-2", n))
		}

		alerts, err := store.RecentByProduct(ctx, "p-2", 2)
		if err != nil {
			t.Fatalf("RecentByProduct() error = %v", err)
		}
		if len(alerts) != 2 {
			t.Errorf("got %d alerts, want 2", len(alerts))
		}
	})

	t.Run("other products are filtered out", func(t *testing.T) {
		store := NewMemoryStore()
		ctx := context.Background()

		store.Save(ctx, alertFor("p-3", 1))
		store.Save(ctx, alertFor("other", 1))

		alerts, err := store.RecentByProduct(ctx, "p-3", 10)
		if err != nil {
			t.Fatalf("RecentByProduct() error = %v", err)
		}
		if len(alerts) != 1 {
			t.Fatalf("got %d alerts, want 1", len(alerts))
		}
		if alerts[0].ProductID != "p-3" {
			t.Errorf("ProductID = %s, want p-3", alerts[0].ProductID)
		}
	})

	t.Run("unknown product yields empty result", func(t *testing.T) {
		store := NewMemoryStore()

		alerts, err := store.RecentByProduct(context.Background(), "nobody", 10)
		if err != nil {
			t.Fatalf("RecentByProduct() error = %v", err)
		}
		if len(alerts) != 0 {
			t.Errorf("got %d alerts, want 0", len(alerts))
		}
	})

	t.Run("saved alert is copied, not referenced", func(t *testing.T) {
		store := NewMemoryStore()
		ctx := context.Background()

		alert := alertFor("p-4", 1)
		store.Save(ctx, alert)
		alert.NetProfit = 999

		alerts, _ := store.RecentByProduct(ctx, "p-4", 1)
		if alerts[0].NetProfit != 1 {
			t.Errorf("NetProfit = %v, want 1 (caller mutation leaked in)", alerts[0].NetProfit)
		}
	})
}
