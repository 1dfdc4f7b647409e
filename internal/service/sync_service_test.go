package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/utils"
)

func TestSyncFailsFastWhenStoreUnavailable(t *testing.T) {
	src := &fakeSource{code: models.SourceShopify}
	svc := NewSyncService(newFakeStore(), &fakeAvail{up: false}, nil, src)

	_, err := svc.Sync(context.Background(), models.SourceShopify)
	if !errors.Is(err, utils.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if src.fetchCalls != 0 {
		t.Errorf("upstream was fetched %d times before the availability check", src.fetchCalls)
	}
}

func TestSyncRejectsUnknownSource(t *testing.T) {
	svc := NewSyncService(newFakeStore(), &fakeAvail{up: true}, nil,
		&fakeSource{code: models.SourceShopify})

	_, err := svc.Sync(context.Background(), models.SourceAmazon)
	if !errors.Is(err, utils.ErrUnknownSource) {
		t.Fatalf("err = %v, want ErrUnknownSource", err)
	}
}

func TestSyncPropagatesUpstreamError(t *testing.T) {
	upstream := fmt.Errorf("%w: shopify fetch: connection refused", utils.ErrUpstream)
	svc := NewSyncService(newFakeStore(), &fakeAvail{up: true}, nil,
		&fakeSource{code: models.SourceShopify, err: upstream})

	_, err := svc.Sync(context.Background(), models.SourceShopify)
	if !errors.Is(err, utils.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestSyncCreatesThenUpdates(t *testing.T) {
	store := newFakeStore()
	src := &fakeSource{code: models.SourceShopify, products: []models.Product{
		shopifyProduct("1001", "Kota Doriya Suit Set"),
		shopifyProduct("1002", "Chanderi Dress Material"),
	}}
	svc := NewSyncService(store, &fakeAvail{up: true}, nil, src)

	result, err := svc.Sync(context.Background(), models.SourceShopify)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if result.Count != 2 || len(result.Errors) != 0 {
		t.Fatalf("first sync result = %+v", result)
	}
	if store.createCalls != 2 || store.updateCalls != 0 {
		t.Fatalf("first sync: creates=%d updates=%d", store.createCalls, store.updateCalls)
	}

	first, err := store.GetBySourceExternalID(models.SourceShopify, "1001")
	if err != nil {
		t.Fatalf("lookup after create: %v", err)
	}

	// Second cycle with a changed title must update in place.
	src.products[0].Title = "Kota Doriya Suit Set (Restocked)"
	result, err = svc.Sync(context.Background(), models.SourceShopify)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("second sync count = %d", result.Count)
	}
	if store.createCalls != 2 || store.updateCalls != 2 {
		t.Fatalf("second sync: creates=%d updates=%d", store.createCalls, store.updateCalls)
	}
	if len(store.products) != 2 {
		t.Fatalf("store holds %d products after resync, want 2", len(store.products))
	}

	second, err := store.GetBySourceExternalID(models.SourceShopify, "1001")
	if err != nil {
		t.Fatalf("lookup after update: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("internal id changed across resync: %q -> %q", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed across resync")
	}
	if second.Title != "Kota Doriya Suit Set (Restocked)" {
		t.Errorf("title not updated: %q", second.Title)
	}
}

func TestSyncPersistsUpstreamTimestamps(t *testing.T) {
	created := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	updated := time.Date(2026, 1, 2, 9, 45, 0, 0, time.UTC)
	p := shopifyProduct("6001", "Kota Doriya Suit Set")
	p.CreatedAt = created
	p.UpdatedAt = updated

	store := newFakeStore()
	svc := NewSyncService(store, &fakeAvail{up: true}, nil,
		&fakeSource{code: models.SourceShopify, products: []models.Product{p}})

	if _, err := svc.Sync(context.Background(), models.SourceShopify); err != nil {
		t.Fatalf("sync: %v", err)
	}

	stored, err := store.GetBySourceExternalID(models.SourceShopify, "6001")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want upstream %v", stored.CreatedAt, created)
	}
	if !stored.UpdatedAt.Equal(updated) {
		t.Errorf("updated_at = %v, want upstream %v", stored.UpdatedAt, updated)
	}
}

func TestSyncStampsSyncedAt(t *testing.T) {
	store := newFakeStore()
	svc := NewSyncService(store, &fakeAvail{up: true}, nil,
		&fakeSource{code: models.SourceAmazon, products: []models.Product{
			amazonProduct("B0DTESTASIN1", "Printed Rayon Ethnic Wear"),
		}})
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.Sync(context.Background(), models.SourceAmazon); err != nil {
		t.Fatalf("sync: %v", err)
	}
	p, err := store.GetBySourceExternalID(models.SourceAmazon, "B0DTESTASIN1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.SyncedAt == nil || !p.SyncedAt.Equal(fixed) {
		t.Errorf("synced_at = %v, want %v", p.SyncedAt, fixed)
	}
}

func TestSyncCollectsPerRecordFailures(t *testing.T) {
	store := newFakeStore()
	missingID := shopifyProduct("", "No External ID")
	missingID.ShopifyID = nil
	src := &fakeSource{
		code: models.SourceShopify,
		products: []models.Product{
			shopifyProduct("2001", "Valid One"),
			missingID,
			shopifyProduct("2002", "Valid Two"),
		},
		skipped: []error{errors.New("shopify product 999: missing title")},
	}
	svc := NewSyncService(store, &fakeAvail{up: true}, nil, src)

	result, err := svc.Sync(context.Background(), models.SourceShopify)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("count = %d, want 2", result.Count)
	}
	// One skipped upstream, one failing validation at upsert.
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v, want 2 entries", result.Errors)
	}
	if len(store.products) != 2 {
		t.Errorf("store holds %d products, want 2", len(store.products))
	}
}
