package search

import (
	"testing"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/catalog"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Service{
		{Code: "tri_303", Name: "Modelo 303", Category: enums.CategoryTrimestres, Description: "IVA trimestral"},
		{Code: "aut_alta", Name: "Alta Express", Category: enums.CategoryAutonomos, Description: "Alta en Hacienda y Seguridad Social"},
		{Code: "soc_const", Name: "Constitución de sociedad", Category: enums.CategorySociedades},
		{Code: "aut_baja", Name: "Baja de autónomo", Category: enums.CategoryAutonomos, Description: "Cese de actividad"},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestFilterEmptyInputsReturnEverythingGrouped(t *testing.T) {
	res := Filter(testCatalog(t), "   ", nil)

	if res.Total != 4 {
		t.Fatalf("expected 4 services, got %d", res.Total)
	}
	if len(res.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(res.Groups))
	}
	want := []enums.Category{enums.CategoryAutonomos, enums.CategorySociedades, enums.CategoryTrimestres}
	for i, c := range want {
		if res.Groups[i].Category != c {
			t.Fatalf("group %d: expected %s, got %s", i, c, res.Groups[i].Category)
		}
	}
	if res.Groups[0].Label != "Autónomos" {
		t.Fatalf("unexpected label %q", res.Groups[0].Label)
	}
	if got := res.Groups[0].Services; got[0].Code != "aut_alta" || got[1].Code != "aut_baja" {
		t.Fatalf("expected declared order inside group, got %s, %s", got[0].Code, got[1].Code)
	}
}

func TestFilterTermMatchesNameAndDescription(t *testing.T) {
	cat := testCatalog(t)

	res := Filter(cat, "ALTA", nil)
	if res.Total != 1 || res.Groups[0].Services[0].Code != "aut_alta" {
		t.Fatalf("expected only aut_alta, got %+v", res)
	}

	res = Filter(cat, "iva", nil)
	if res.Total != 1 || res.Groups[0].Services[0].Code != "tri_303" {
		t.Fatalf("expected description match on tri_303, got %+v", res)
	}

	res = Filter(cat, "nothing matches this", nil)
	if res.Total != 0 || len(res.Groups) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestFilterCategoriesAndTermCombine(t *testing.T) {
	cat := testCatalog(t)

	res := Filter(cat, "", []enums.Category{enums.CategoryTrimestres})
	if res.Total != 1 || res.Groups[0].Category != enums.CategoryTrimestres {
		t.Fatalf("expected trimestres only, got %+v", res)
	}

	res = Filter(cat, "alta", []enums.Category{enums.CategorySociedades})
	if res.Total != 0 {
		t.Fatalf("expected no match across category filter, got %+v", res)
	}
}

func TestParseCategories(t *testing.T) {
	got, unknown := ParseCategories([]string{"autonomos, Trimestre", "unknown", "AUTÓNOMOS", ""})
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[0] != enums.CategoryAutonomos || got[1] != enums.CategoryTrimestres {
		t.Fatalf("unexpected categories %v", got)
	}
	if len(unknown) != 1 || unknown[0] != "unknown" {
		t.Fatalf("expected the unknown value to be reported, got %v", unknown)
	}
	if out, unknown := ParseCategories(nil); len(out) != 0 || len(unknown) != 0 {
		t.Fatalf("expected empty selection, got %v %v", out, unknown)
	}
	if out, unknown := ParseCategories([]string{"BOGUS"}); len(out) != 0 || len(unknown) != 1 {
		t.Fatalf("expected only an unknown value, got %v %v", out, unknown)
	}
}
