package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/models"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

func strPtr(s string) *string { return &s }

func TestFromRowsDropsUnpublishedAndSkipsInvalid(t *testing.T) {
	rows := []Row{
		{ID: "1", Slug: "aut_alta", Title: "Alta", Category: "AUTÓNOMOS", Summary: strPtr(" Alta rápida "), IsPublished: true},
		{ID: "2", Slug: "soc_hidden", Title: "Oculto", Category: "SOCIEDADES", IsPublished: false},
		{ID: "3", Slug: "x_bad", Title: "Bad", Category: "FISCAL", IsPublished: true},
		{ID: "4", Slug: "trim_q", Title: "Trimestre", Category: "TRIMESTRE", PriceNote: strPtr("desde 30€"), IsPublished: true,
			Details: json.RawMessage(`[{"field":"facturas","label":"Número de facturas","type":"number","required":true}]`)},
	}

	services, skipped := FromRows(rows)
	if skipped == nil {
		t.Fatal("expected skipped error for the unknown category row")
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].Category != enums.CategoryAutonomos || services[0].Description != "Alta rápida" {
		t.Fatalf("unexpected first service %+v", services[0])
	}
	if services[1].Category != enums.CategoryTrimestres || services[1].PriceNote != "desde 30€" {
		t.Fatalf("unexpected second service %+v", services[1])
	}
	if f, ok := services[1].Field("facturas"); !ok || !f.Required {
		t.Fatalf("expected decoded detail schema, got %+v", services[1].Details)
	}
}

func TestStaticRowsMapBackToStaticServices(t *testing.T) {
	rows, err := StaticSource{}.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	services, skipped := FromRows(rows)
	if skipped != nil {
		t.Fatalf("unexpected skipped rows: %v", skipped)
	}
	if len(services) != len(staticServices) {
		t.Fatalf("expected %d services, got %d", len(staticServices), len(services))
	}
	for i := range services {
		if services[i].Code != staticServices[i].Code || len(services[i].Details) != len(staticServices[i].Details) {
			t.Fatalf("service %d mismatch: %+v vs %+v", i, services[i], staticServices[i])
		}
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.CatalogService{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRepositorySeedAndDBSource(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	seed := SeedRecords(staticServices[:3])
	if err := repo.Upsert(ctx, seed); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	renamed := SeedRecords(staticServices[:1])
	renamed[0].Title = "Alta/Baja renombrada"
	renamed[0].IsPublished = false
	if err := repo.Upsert(ctx, renamed); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := NewDBSource(repo).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows after upsert, got %d", len(rows))
	}
	if rows[0].Title != "Alta/Baja renombrada" || rows[0].IsPublished {
		t.Fatalf("expected first row to be updated in place, got %+v", rows[0])
	}

	services, _ := FromRows(rows)
	if len(services) != 2 {
		t.Fatalf("expected unpublished row to be dropped, got %d services", len(services))
	}
	if len(services[0].Details) != len(staticServices[1].Details) {
		t.Fatalf("expected details to survive the database round trip")
	}
}

type fakeSelecter struct {
	table string
	query url.Values
	body  string
	err   error
}

func (f *fakeSelecter) Select(_ context.Context, table string, query url.Values, out any) error {
	f.table = table
	f.query = query
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.body), out)
}

func TestRemoteSourceLoad(t *testing.T) {
	client := &fakeSelecter{body: `[{"id":"9","slug":"lab_nominas","title":"Nóminas","category":"LABORAL","summary":null,"price_note":"desde 15€","is_published":true}]`}
	src := NewRemoteSource(client, "")

	rows, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if client.table != "services" {
		t.Fatalf("expected default table, got %q", client.table)
	}
	if client.query.Get("is_published") != "eq.true" {
		t.Fatalf("expected published filter, got %v", client.query)
	}
	if len(rows) != 1 || rows[0].Slug != "lab_nominas" || rows[0].PriceNote == nil {
		t.Fatalf("unexpected rows %+v", rows)
	}

	client.err = errors.New("boom")
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected remote error to propagate")
	}
}
