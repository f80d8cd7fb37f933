package cryptotax

import (
	"testing"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{M(71250, "USD"), "$71,250.00"},
		{M(-1234.5, "USD"), "-$1,234.50"},
		{M(0.125, "USD"), "$0.13"},
		{M(10, ""), "10"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.m.String(); got != tc.want {
				t.Errorf("Money.String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMoney_WeakCurrency(t *testing.T) {
	got := M(10, "").Add(M(5, "EUR"))
	if got.Currency() != "EUR" {
		t.Errorf("Add() currency = %q, want %q", got.Currency(), "EUR")
	}
	if !got.Equal(M(15, "EUR")) {
		t.Errorf("Add() = %v, want %v", got, M(15, "EUR"))
	}
	defer func() {
		if recover() == nil {
			t.Error("Add() with two different currencies should panic")
		}
	}()
	M(1, "USD").Add(M(1, "EUR"))
}

func TestMoney_Exact(t *testing.T) {
	// 1/3 of a price times 3 is not exactly the price, but the sum of thirds
	// computed as remainder is.
	total := M(100, "USD")
	third := total.Div(Q(3))
	rest := total.Sub(third).Sub(third)
	if !third.Add(third).Add(rest).Equal(total) {
		t.Errorf("third+third+rest = %v, want %v", third.Add(third).Add(rest), total)
	}
}

func TestMoney_JSON(t *testing.T) {
	b, err := M(0.1, "USD").Add(M(0.2, "USD")).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() unexpected error: %v", err)
	}
	if string(b) != "0.3" {
		t.Errorf("MarshalJSON() = %s, want 0.3", b)
	}
	var m Money
	if err := m.UnmarshalJSON([]byte("40000.5")); err != nil {
		t.Fatalf("UnmarshalJSON() unexpected error: %v", err)
	}
	if !m.Equal(M(40000.5, "")) {
		t.Errorf("UnmarshalJSON() = %v, want 40000.5", m)
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "GBP"} {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("ValidateCurrency(%q) unexpected error: %v", code, err)
		}
	}
	for _, code := range []string{"", "XYZQ"} {
		if err := ValidateCurrency(code); err == nil {
			t.Errorf("ValidateCurrency(%q) expected an error", code)
		}
	}
}
