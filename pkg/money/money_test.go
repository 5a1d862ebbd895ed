package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_RoundsToFixedPrecision(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "integer", in: "100", want: "100.00"},
		{name: "two places", in: "123.45", want: "123.45"},
		{name: "rounds half up", in: "0.125", want: "0.13"},
		{name: "negative", in: "-5.5", want: "-5.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, m.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("ten dollars")
	require.Error(t, err)
}

func TestMoney_Predicates(t *testing.T) {
	require.True(t, MustParse("0.01").IsPositive())
	require.False(t, Money{}.IsPositive())
	require.True(t, Money{}.IsZero())
	require.True(t, MustParse("-1").IsNegative())
	require.Equal(t, "3.00", MustParse("1.25").Add(MustParse("1.75")).String())
	require.Equal(t, -1, MustParse("1").Cmp(MustParse("2")))
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: MustParse("100")})
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"100.00"}`, string(b))

	var got struct {
		Amount Money `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount":42.5}`), &got))
	require.Equal(t, "42.50", got.Amount.String())
}

func TestMoney_SQLRoundTrip(t *testing.T) {
	v, err := MustParse("19.9").Value()
	require.NoError(t, err)
	require.Equal(t, "19.90", v)

	tests := []struct {
		raw  any
		want string
	}{
		{raw: "19.90", want: "19.90"},
		{raw: float64(19.9), want: "19.90"},
		{raw: int64(19), want: "19.00"},
		{raw: []byte("19.9"), want: "19.90"},
	}
	for _, tt := range tests {
		var m Money
		require.NoError(t, m.Scan(tt.raw))
		require.Equal(t, tt.want, m.String())
	}
}
