package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the fixed number of decimal places every amount is rounded to.
const Places int32 = 2

// Money is a monetary amount with a fixed precision of Places decimals.
// The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

func New(d decimal.Decimal) Money {
	return Money{d: d.Round(Places)}
}

func FromInt(units int64) Money {
	return Money{d: decimal.NewFromInt(units).Round(Places)}
}

// Parse reads a decimal string such as "100.00".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return New(d), nil
}

func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Add(o Money) Money { return New(m.d.Add(o.d)) }

func (m Money) Sub(o Money) Money { return New(m.d.Sub(o.d)) }

// String renders the amount with exactly Places decimals, the format the
// payment provider expects for totals.
func (m Money) String() string {
	return m.d.StringFixed(Places)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*m = New(d)
	return nil
}

// Value implements driver.Valuer so Money can be stored in decimal columns.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("failed to scan money: %w", err)
	}
	*m = New(d)
	return nil
}
