package fees

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Config is a channel's fee schedule. Cap is optional; when set the
// computed fee never exceeds it.
type Config struct {
	Fixed   decimal.Decimal
	Percent decimal.Decimal
	Cap     *decimal.Decimal
}

// Compute returns fixed + amount*percent/100, clamped to the cap, then
// rounded once to 2 decimal places, half away from zero. Intermediate
// values are never rounded.
func Compute(amount decimal.Decimal, c Config) decimal.Decimal {
	fee := c.Fixed.Add(amount.Mul(c.Percent).Div(hundred))
	if c.Cap != nil && fee.GreaterThan(*c.Cap) {
		fee = *c.Cap
	}
	return fee.Round(2)
}
