package tests

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mandado/internal/service"
)

// ──────────────────────────────────────────────
// 1. PRICE FORMULA
// ──────────────────────────────────────────────

func TestPriceForDistance(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		distanceKm float64
		want       string
	}{
		{"zero distance is the base fare", 0, "10"},
		{"five km", 5, "27.5"},
		{"one km", 1, "13.5"},
		{"fractional km rounds to cents", 2.333, "18.17"},
		{"long haul", 100, "360"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.PriceForDistance(tc.distanceKm)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestQuotePrice_SamePointIsBaseFare(t *testing.T) {
	t.Parallel()

	price := service.QuotePrice(-23.5505, -46.6333, -23.5505, -46.6333)
	if !price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected base fare 10, got %s", price)
	}
}

func TestQuotePrice_IsSymmetric(t *testing.T) {
	t.Parallel()

	ab := service.QuotePrice(-23.5505, -46.6333, -22.9068, -43.1729)
	ba := service.QuotePrice(-22.9068, -43.1729, -23.5505, -46.6333)
	if !ab.Equal(ba) {
		t.Errorf("expected symmetric prices, got %s and %s", ab, ba)
	}
}

// ──────────────────────────────────────────────
// 2. PIX COPY-PASTE CODE
// ──────────────────────────────────────────────

func TestGeneratePixCode_CarriesAmountAndCharge(t *testing.T) {
	t.Parallel()

	code := service.GeneratePixCode("123e4567-e89b-12d3-a456-426614174000", decimal.RequireFromString("27.50"))

	if !strings.Contains(code, "br.gov.bcb.pix") {
		t.Error("expected the PIX GUI in the merchant account field")
	}
	if !strings.Contains(code, "27.50") {
		t.Error("expected the amount in the code")
	}
	if !strings.Contains(code, "5802BR") {
		t.Error("expected the country field")
	}
	if len(code) < 4 {
		t.Fatal("code too short")
	}
	// Last four characters are the CRC in upper-case hex.
	crc := code[len(code)-4:]
	if strings.ToUpper(crc) != crc {
		t.Errorf("expected an upper-case CRC, got %s", crc)
	}
}

func TestGeneratePixCode_IsDeterministic(t *testing.T) {
	t.Parallel()

	a := service.GeneratePixCode("charge-1", decimal.NewFromInt(50))
	b := service.GeneratePixCode("charge-1", decimal.NewFromInt(50))
	if a != b {
		t.Error("expected the same code for the same charge")
	}

	c := service.GeneratePixCode("charge-2", decimal.NewFromInt(50))
	if a == c {
		t.Error("expected different codes for different charges")
	}
}
