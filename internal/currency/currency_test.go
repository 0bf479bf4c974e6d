package currency

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{name: "zero", amount: 0, want: "฿0"},
		{name: "small", amount: 50, want: "฿50"},
		{name: "thousands grouping", amount: 125000, want: "฿125,000"},
		{name: "millions grouping", amount: 1234567, want: "฿1,234,567"},
		{name: "negative", amount: -50, want: "-฿50"},
		{name: "negative grouped", amount: -125000, want: "-฿125,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.amount); got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}
