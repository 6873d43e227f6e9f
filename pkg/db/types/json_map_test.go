package dbtypes

import "testing"

func TestJSONMapValueAndScan(t *testing.T) {
	original := JSONMap{"facturas": "25", "comentarios": "urgente"}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}

	var decoded JSONMap
	if err := decoded.Scan([]byte(value.(string))); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if decoded["facturas"] != "25" || decoded["comentarios"] != "urgente" {
		t.Fatalf("unexpected decoded map %v", decoded)
	}
}

func TestJSONMapEmptyIsNull(t *testing.T) {
	value, err := JSONMap{}.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if value != nil {
		t.Fatalf("expected nil value for empty map, got %v", value)
	}

	var m JSONMap
	if err := m.Scan(nil); err != nil || m != nil {
		t.Fatalf("expected nil map after scanning NULL, got %v err=%v", m, err)
	}
	if err := m.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}
