package util

import "testing"

func TestCanonicalizeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alex Hormozi", "alex-hormozi"},
		{"  alex  hormozi  ", "alex-hormozi"},
		{"jose_carlos_amorim", "jose-carlos-amorim"},
		{"naval.ravikant", "naval-ravikant"},
		{"o'brien", "obrien"},
		{"Already-Canonical", "already-canonical"},
		{"trailing-", "trailing"},
		{"", ""},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := CanonicalizeSlug(c.in); got != c.want {
			t.Fatalf("CanonicalizeSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugVariants(t *testing.T) {
	variants := SlugVariants("Jose Carlos Amorim")

	want := []string{"jose carlos amorim", "jose-carlos-amorim", "jose_carlos_amorim"}
	if len(variants) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), variants)
	}
	for i := range want {
		if variants[i] != want[i] {
			t.Fatalf("expected variant %q at %d, got %q", want[i], i, variants[i])
		}
	}
}

func TestSlugVariantsDeduplicates(t *testing.T) {
	variants := SlugVariants("naval")

	if len(variants) != 1 || variants[0] != "naval" {
		t.Fatalf("expected single deduplicated variant, got %v", variants)
	}
}

func TestSlugVariantsEmptyInput(t *testing.T) {
	if variants := SlugVariants("   "); len(variants) != 0 {
		t.Fatalf("expected no variants for blank input, got %v", variants)
	}
}
