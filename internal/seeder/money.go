package seeder

import (
	"fmt"
	"math"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
)

// Money is an amount in cents.
type Money int64

// MoneyFromFloat rounds half-up to the nearest cent.
func MoneyFromFloat(v float64) Money {
	return Money(math.Floor(v*100 + 0.5))
}

// Discounted applies a whole-percent discount, rounding half-up to the cent.
func (m Money) Discounted(percent int) Money {
	return Money((int64(m)*int64(100-percent) + 50) / 100)
}

func (m Money) Float64() float64 {
	return float64(m) / 100
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Numeric encodes the amount exactly for a NUMERIC(10,2) column.
func (m Money) Numeric() pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(int64(m)), Exp: -2, Valid: true}
}
