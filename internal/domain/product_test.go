package domain

import "testing"

func sampleCatalog() []Product {
	return []Product{
		{ID: 1, Title: "iPhone 14", Category: "smartphones"},
		{ID: 2, Title: "Kettle", Category: "kitchen"},
		{ID: 3, Title: "Galaxy S23", Category: "smartphones"},
	}
}

func TestFilterProductsByTitle(t *testing.T) {
	got := FilterProducts(sampleCatalog(), "phone")
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
	// id 1 matches on title, id 3 on category; order preserved
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestFilterProductsCaseInsensitive(t *testing.T) {
	got := FilterProducts(sampleCatalog(), "PHONE")
	if len(got) != 2 {
		t.Errorf("expected case-insensitive match, got %d results", len(got))
	}
}

func TestFilterProductsEmptyQueryReturnsAll(t *testing.T) {
	catalog := sampleCatalog()
	got := FilterProducts(catalog, "")
	if len(got) != len(catalog) {
		t.Fatalf("expected all %d products, got %d", len(catalog), len(got))
	}
	for i := range got {
		if got[i].ID != catalog[i].ID {
			t.Errorf("order changed at %d: %+v", i, got)
		}
	}
}

func TestFilterProductsDoesNotMutateInput(t *testing.T) {
	catalog := sampleCatalog()
	_ = FilterProducts(catalog, "kettle")
	if catalog[0].ID != 1 || catalog[1].ID != 2 || catalog[2].ID != 3 {
		t.Errorf("input mutated: %+v", catalog)
	}
}

func TestFilterProductsNoMatch(t *testing.T) {
	got := FilterProducts(sampleCatalog(), "laptop")
	if len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}
