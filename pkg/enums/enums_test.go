package enums

import "testing"

func TestParseCategoryAcceptsLegacySpellings(t *testing.T) {
	cases := map[string]Category{
		"AUTONOMOS":  CategoryAutonomos,
		"AUTÓNOMOS":  CategoryAutonomos,
		" laboral ":  CategoryLaboral,
		"TRIMESTRE":  CategoryTrimestres,
		"sociedades": CategorySociedades,
	}
	for raw, want := range cases {
		got, err := ParseCategory(raw)
		if err != nil {
			t.Fatalf("ParseCategory(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCategory(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := ParseCategory("FISCAL"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestCategoryOrderAndLabels(t *testing.T) {
	cats := Categories()
	if len(cats) != 4 || cats[0] != CategoryAutonomos || cats[3] != CategoryTrimestres {
		t.Fatalf("unexpected category order %v", cats)
	}
	if CategoryLaboral.Rank() != 2 {
		t.Fatalf("expected LABORAL rank 2, got %d", CategoryLaboral.Rank())
	}
	if Category("OTHER").Rank() != -1 {
		t.Fatal("expected unknown category rank -1")
	}
	if CategoryAutonomos.Label() != "Autónomos" {
		t.Fatalf("unexpected label %q", CategoryAutonomos.Label())
	}

	cats[0] = CategoryLaboral
	if Categories()[0] != CategoryAutonomos {
		t.Fatal("Categories must return a copy")
	}
}

func TestParseClientType(t *testing.T) {
	if got, err := ParseClientType(" PYME "); err != nil || got != ClientTypePyme {
		t.Fatalf("expected pyme, got %q err=%v", got, err)
	}
	if _, err := ParseClientType(""); err == nil {
		t.Fatal("expected empty client type to fail")
	}
	if ClientType("empresa").IsValid() {
		t.Fatal("unexpected valid client type")
	}
}

func TestOutboxEnums(t *testing.T) {
	if _, err := ParseOutboxEventType("quote_requested"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseOutboxAggregateType("order"); err == nil {
		t.Fatal("expected unknown aggregate to fail")
	}
	if got, err := ParseOutboxDLQErrorReason("max_attempts"); err != nil || got != OutboxDLQReasonMaxAttempts {
		t.Fatalf("expected max_attempts, got %q err=%v", got, err)
	}
	if OutboxDLQErrorReason("timeout").IsValid() {
		t.Fatal("unexpected valid dlq reason")
	}
	if !DetailKindTextarea.IsValid() {
		t.Fatal("textarea should be a valid detail kind")
	}
}
