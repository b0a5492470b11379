package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/3est3est/motorcycle-service/pkg/db/dbtest"
	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

func mustCreatePart(t *testing.T, repo Repository, stock int) *models.Part {
	t.Helper()
	part, err := repo.CreatePart(context.Background(), &models.Part{
		Name:     "Brake pad",
		Price:    decimal.NewFromInt(350),
		StockQty: stock,
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	return part
}

func TestConsumeStockGuardsAgainstOverdraw(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	part := mustCreatePart(t, repo, 5)

	ok, err := repo.ConsumeStock(ctx, part.ID, 3)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !ok {
		t.Fatal("expected consume to succeed with stock available")
	}

	ok, err = repo.ConsumeStock(ctx, part.ID, 3)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok {
		t.Fatal("expected consume to fail once stock is short")
	}

	fetched, err := repo.FindPartByID(ctx, part.ID)
	if err != nil {
		t.Fatalf("find part: %v", err)
	}
	if fetched.StockQty != 2 {
		t.Fatalf("expected stock 2 after one consume, got %d", fetched.StockQty)
	}
}

func TestRestoreStockAddsBack(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	part := mustCreatePart(t, repo, 1)

	if err := repo.RestoreStock(ctx, part.ID, 4); err != nil {
		t.Fatalf("restore: %v", err)
	}
	fetched, err := repo.FindPartByID(ctx, part.ID)
	if err != nil {
		t.Fatalf("find part: %v", err)
	}
	if fetched.StockQty != 5 {
		t.Fatalf("expected stock 5, got %d", fetched.StockQty)
	}
}

func TestListPartsFilters(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.CreatePart(ctx, &models.Part{Name: "Chain kit", Price: decimal.NewFromInt(900), StockQty: 0}); err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := repo.CreatePart(ctx, &models.Part{Name: "Oil filter", Price: decimal.NewFromInt(120), StockQty: 7}); err != nil {
		t.Fatalf("create part: %v", err)
	}

	all, err := repo.ListParts(ctx, PartFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(all))
	}

	inStock, err := repo.ListParts(ctx, PartFilters{InStockOnly: true})
	if err != nil {
		t.Fatalf("list in stock: %v", err)
	}
	if len(inStock) != 1 || inStock[0].Name != "Oil filter" {
		t.Fatalf("unexpected in-stock result: %+v", inStock)
	}

	byName, err := repo.ListParts(ctx, PartFilters{Query: "Chain"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Chain kit" {
		t.Fatalf("unexpected query result: %+v", byName)
	}
}

func TestCountRepairUsage(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	part := mustCreatePart(t, repo, 10)

	booking := dbtest.SeedBooking(t, conn)
	job := &models.RepairJob{
		BookingID: booking.ID,
		Status:    enums.RepairStatusCreated,
	}
	if err := conn.Create(job).Error; err != nil {
		t.Fatalf("create repair job: %v", err)
	}

	rp := &models.RepairPart{
		RepairJobID: job.ID,
		PartID:      part.ID,
		Quantity:    2,
		UnitPrice:   part.Price,
		PriceTotal:  part.Price.Mul(decimal.NewFromInt(2)),
	}
	if err := conn.Create(rp).Error; err != nil {
		t.Fatalf("create repair part: %v", err)
	}

	count, err := repo.CountRepairUsage(ctx, part.ID)
	if err != nil {
		t.Fatalf("count usage: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected usage 1, got %d", count)
	}
}
