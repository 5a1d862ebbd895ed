package payload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `{
  "id": "PAY-1",
  "transactions": [
    {"related_resources": [{"sale": {"id": "SALE-9"}}, {"refund": {"id": "R-1"}}]}
  ],
  "transaction_fee": {"value": "3.20"},
  "count": 2
}`

func TestGet_Paths(t *testing.T) {
	data, ok := Decode([]byte(sample))
	require.True(t, ok)

	tests := []struct {
		name   string
		path   []any
		want   string
		wantOK bool
	}{
		{name: "top level", path: []any{"id"}, want: "PAY-1", wantOK: true},
		{name: "nested", path: []any{"transactions", 0, "related_resources", 0, "sale", "id"}, want: "SALE-9", wantOK: true},
		{name: "missing key", path: []any{"transactions", 0, "related_resources", 0, "authorization", "id"}},
		{name: "index out of range", path: []any{"transactions", 3, "related_resources"}},
		{name: "negative index", path: []any{"transactions", -1}},
		{name: "array indexed by key", path: []any{"transactions", "first"}},
		{name: "object indexed by int", path: []any{0}},
		{name: "non-string leaf", path: []any{"count"}},
		{name: "unsupported key type", path: []any{1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := String(data, tt.path...)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStringFromRaw_Malformed(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("not json"), []byte("null"), []byte(`{"id":null}`)} {
		_, ok := StringFromRaw(raw, "id")
		require.False(t, ok)
	}
}
