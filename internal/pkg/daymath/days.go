package daymath

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Days is a leave duration stored as integer tenths of a day. All balance
// arithmetic happens on this type so repeated reserve/release cycles can
// never accumulate floating-point drift. The external representation is
// decimal (e.g. "2.5").
type Days int64

var ErrNotTenthPrecision = errors.New("day amount must be a multiple of 0.1")

const (
	Zero    Days = 0
	HalfDay Days = 5
	FullDay Days = 10
)

// FromDecimal converts an external decimal amount into tenths. Amounts finer
// than a tenth of a day are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Days, error) {
	tenths := d.Mul(decimal.NewFromInt(10))
	if !tenths.IsInteger() {
		return 0, ErrNotTenthPrecision
	}
	return Days(tenths.IntPart()), nil
}

// Parse converts a decimal string such as "2.5" into Days.
func Parse(s string) (Days, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid day amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromInt returns a whole number of days.
func FromInt(n int) Days {
	return Days(n) * FullDay
}

// Decimal returns the external decimal representation.
func (d Days) Decimal() decimal.Decimal {
	return decimal.New(int64(d), -1)
}

// Tenths returns the raw fixed-point value, used for persistence.
func (d Days) Tenths() int64 {
	return int64(d)
}

func (d Days) IsZero() bool {
	return d == 0
}

func (d Days) IsNegative() bool {
	return d < 0
}

func (d Days) Add(o Days) Days {
	return d + o
}

func (d Days) Sub(o Days) Days {
	return d - o
}

func (d Days) String() string {
	return d.Decimal().String()
}

// MarshalJSON renders Days as a plain JSON number.
func (d Days) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal().String()), nil
}

func (d *Days) UnmarshalJSON(data []byte) error {
	dec, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid day amount %s: %w", data, err)
	}
	parsed, err := FromDecimal(dec)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
