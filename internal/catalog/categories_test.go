package catalog

import "testing"

func TestNormalizeFoldsSynonyms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Calçados", "calçados"},
		{"calcados", "calçados"},
		{"shoes", "calçados"},
		{"  Acessorios ", "acessórios"},
		{"accessory", "acessórios"},
		{"MEN", "masculino"},
		{"mulher", "feminino"},
		{"infantil", "kids"},
		{"Ofertas", "off"},
		{"new arrivals", "novidades"},
		{"Destaques", "featured"},
		{"melhores", "featured"},
		{"Camisetas Estampadas", "camisetas estampadas"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Calçados", "shoes", "Camisetas Estampadas", "OFF"} {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsDefault(t *testing.T) {
	t.Parallel()

	if !IsDefault("Shoes") {
		t.Fatal("expected shoes synonym to be a default category")
	}
	if IsDefault("camisetas") {
		t.Fatal("expected custom category to not be default")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName("calcados"); got != "Calçados" {
		t.Fatalf("DisplayName(calcados) = %q", got)
	}
	if got := DisplayName("Camisetas Vintage"); got != "Camisetas Vintage" {
		t.Fatalf("DisplayName custom = %q", got)
	}
}

func TestToURLSlug(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Calçados", "calcados"},
		{"Coleção Verão 2025", "colecao-verao-2025"},
		{"  Promoção!  Relâmpago  ", "promocao-relampago"},
		{"já-um-slug", "ja-um-slug"},
		{"", ""},
	}
	for _, tc := range cases {
		got := ToURLSlug(tc.in)
		if got != tc.want {
			t.Fatalf("ToURLSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if again := ToURLSlug(got); again != got {
			t.Fatalf("ToURLSlug not idempotent for %q: %q then %q", tc.in, got, again)
		}
	}
}

func TestLinkSlugKeepsCanonicalCategories(t *testing.T) {
	t.Parallel()

	if got := LinkSlug("Shoes"); got != "calçados" {
		t.Fatalf("LinkSlug(Shoes) = %q", got)
	}
	if got := LinkSlug("Coleção Verão"); got != "colecao-verao" {
		t.Fatalf("LinkSlug custom = %q", got)
	}
}

func TestPagePathRoundTrip(t *testing.T) {
	t.Parallel()

	path := PagePath("Coleção Verão")
	if path != "/products/colecao-verao" {
		t.Fatalf("PagePath = %q", path)
	}
	if got := CategoryFromPath(path); got != "colecao-verao" {
		t.Fatalf("CategoryFromPath = %q", got)
	}
}
