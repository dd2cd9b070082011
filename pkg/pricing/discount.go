package pricing

import "math"

// Discount returns the percentage change from initial to current.
//
// Unknown prices give 0. A current price of 0 is always -100 (free). An
// initial price of 0 is treated as 1, so going from free to 3 reports +300;
// existing output depends on that, keep it.
func Discount(initial, current *float64) int {
	if initial == nil || current == nil {
		return 0
	}
	if *current == 0 {
		return -100
	}

	base := *initial
	if base == 0 {
		base = 1
	}
	percent := (*current - *initial) / base * 100

	return int(math.RoundToEven(percent))
}

// DiscountCents is Discount for prices in minor units.
func DiscountCents(initial, current *int) int {
	return Discount(toFloat(initial), toFloat(current))
}

func toFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
