package main

import (
	"strings"
	"testing"
)

func TestCleanImageURL(t *testing.T) {
	redirect := "https://www.google.com/imgres?q=leather%20belts&imgurl=https%3A%2F%2Fcdn.example.com%2Fbelt.jpg&docid=abc"
	got := cleanImageURL(redirect)
	if got != "https://cdn.example.com/belt.jpg" {
		t.Fatalf("cleanImageURL = %q", got)
	}

	direct := "https://m.media-amazon.com/images/I/61Zbbb-hrXL._UY1000_.jpg"
	if got := cleanImageURL(direct); got != direct {
		t.Fatalf("direct URL changed: %q", got)
	}
}

func TestSeedCatalogShape(t *testing.T) {
	if len(seedCatalog) == 0 {
		t.Fatal("seed catalog is empty")
	}
	seen := make(map[string]struct{}, len(seedCatalog))
	for _, p := range seedCatalog {
		if p.Name == "" || p.ProductCode == "" || p.Category == "" {
			t.Fatalf("incomplete seed product: %+v", p)
		}
		if p.Price <= 0 {
			t.Fatalf("product %s has non-positive price", p.ProductCode)
		}
		if _, dup := seen[p.ProductCode]; dup {
			t.Fatalf("duplicate product code %s", p.ProductCode)
		}
		seen[p.ProductCode] = struct{}{}
		if strings.Contains(cleanImageURL(p.ImageURL), "google.com/imgres") {
			t.Fatalf("product %s image URL not cleanable", p.ProductCode)
		}
	}
}
