package cli

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestDateBound(t *testing.T) {
	tests := []struct {
		in   string
		end  bool
		want string
	}{
		{"", false, ""},
		{"2024-03-01", false, "2024-03-01T00:00:00"},
		{"2024-03-01", true, "2024-03-01T23:59:59"},
		{"2024-03-01T10:30:00", true, "2024-03-01T10:30:00"},
	}
	for _, tt := range tests {
		got, err := dateBound(tt.in, tt.end)
		if err != nil {
			t.Fatalf("dateBound(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("dateBound(%q, %v) = %q, want %q", tt.in, tt.end, got, tt.want)
		}
	}
	if _, err := dateBound("March", false); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestRouteOf(t *testing.T) {
	root := NewRootCmd()
	tests := []struct {
		args []string
		want string
		ok   bool
	}{
		{[]string{"admin", "users", "list"}, "/admin", true},
		{[]string{"portfolio", "add"}, "/portfolio", true},
		{[]string{"whoami"}, "/dashboard", true},
		{[]string{"logout"}, "", false},
	}
	for _, tt := range tests {
		cmd, _, err := root.Find(tt.args)
		if err != nil {
			t.Fatalf("find %v: %v", tt.args, err)
		}
		got, ok := routeOf(cmd)
		if got != tt.want || ok != tt.ok {
			t.Errorf("routeOf(%v) = %q, %v; want %q, %v", tt.args, got, ok, tt.want, tt.ok)
		}
	}
}
