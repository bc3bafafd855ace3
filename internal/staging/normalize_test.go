package staging

import (
	"strings"
	"testing"
)

func TestNormalizeCity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"São Paulo!!", "sao paulo"},
		{"  Rio-de Janeiro  ", "rio de janeiro"},
		{"BELO HORIZONTE", "belo horizonte"},
		{"santa bárbara d'oeste", "santa barbara d oeste"},
		{"Mogi   das Cruzes", "mogi das cruzes"},
		{"ribeirão preto / sp", "ribeirao preto sp"},
		{"jaboatão dos guararapes", "jaboatao dos guararapes"},
		{"4o centenario", "4o centenario"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeCity(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeCity(%q): expected %q, got %q", tt.input, tt.want, got)
			}
		})
	}
}

func TestNormalizeCityIdempotent(t *testing.T) {
	for _, city := range []string{"São Paulo!!", "Brasília", "  Rio-de Janeiro  "} {
		once := NormalizeCity(city)
		if twice := NormalizeCity(once); twice != once {
			t.Errorf("Normalizing %q twice changed it: %q -> %q", city, once, twice)
		}
	}
}

func TestCityNormSQL(t *testing.T) {
	expr := cityNormSQL("customer_city")

	for _, part := range []string{
		"unaccent(LOWER(customer_city))",
		"'[^a-z0-9]+'",
		`'\s+'`,
		"trim(",
	} {
		if !strings.Contains(expr, part) {
			t.Errorf("Expression missing %s:\n%s", part, expr)
		}
	}
}
