package order

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseStatus(t *testing.T) {
	for v := uint64(0); v <= 4; v++ {
		if _, ok := ParseStatus(v); !ok {
			t.Fatalf("ParseStatus(%d) rejected a contract enum value", v)
		}
	}
	if _, ok := ParseStatus(5); ok {
		t.Fatal("ParseStatus(5) must be rejected")
	}
}

func TestStatusTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusOpen:      false,
		StatusFunded:    false,
		StatusRepaid:    true,
		StatusDefaulted: true,
		StatusCancelled: true,
	}
	for s, want := range cases {
		if got := s.Terminal(); got != want {
			t.Fatalf("%s.Terminal() = %v, want %v", s, got, want)
		}
	}
}

func TestHasLender(t *testing.T) {
	o := Order{}
	if o.HasLender() {
		t.Fatal("zero address must not count as a lender")
	}
	o.Lender = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	if !o.HasLender() {
		t.Fatal("set lender not detected")
	}
}

func TestCanonicalAddress(t *testing.T) {
	mixed := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	got := CanonicalAddress(mixed)
	if got != "0x70997970c51812dc3a010c7d01b50e0d17dc79c8" {
		t.Fatalf("CanonicalAddress = %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.000000"},
		{1, "0.000001"},
		{100_500_000, "100.500000"},
		{1_000_000, "1.000000"},
		{-2_500_000, "-2.500000"},
	}
	for _, tc := range cases {
		if got := FormatAmount(big.NewInt(tc.in)); got != tc.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := FormatAmount(nil); got != "0.000000" {
		t.Fatalf("FormatAmount(nil) = %q", got)
	}
}

func TestFormatRateBps(t *testing.T) {
	if got := FormatRateBps(500); got != "5.00%" {
		t.Fatalf("FormatRateBps(500) = %q", got)
	}
	if got := FormatRateBps(1); got != "0.01%" {
		t.Fatalf("FormatRateBps(1) = %q", got)
	}
	if got := FormatRateBps(1234); got != "12.34%" {
		t.Fatalf("FormatRateBps(1234) = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(86_400); got != "1 day" {
		t.Fatalf("FormatDuration(86400) = %q", got)
	}
	if got := FormatDuration(2_592_000); got != "30 days" {
		t.Fatalf("FormatDuration(2592000) = %q", got)
	}
}

func TestShortAddress(t *testing.T) {
	got := ShortAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	if got != "0x7099…79c8" {
		t.Fatalf("ShortAddress = %q", got)
	}
	if got := ShortAddress("0xabc"); got != "0xabc" {
		t.Fatalf("short input must pass through, got %q", got)
	}
}
