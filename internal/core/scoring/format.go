package scoring

import (
	"fmt"
	"strconv"
)

const (
	crore = 1_00_00_000
	lakh  = 1_00_000
)

// FormatPrice печатает сумму в рупиях в индийской нотации: "1.25 Cr", "60.00 L" или как есть.
func FormatPrice(amount int64) string {
	switch {
	case amount >= crore:
		return fmt.Sprintf("%.2f Cr", float64(amount)/crore)
	case amount >= lakh:
		return fmt.Sprintf("%.2f L", float64(amount)/lakh)
	default:
		return strconv.FormatInt(amount, 10)
	}
}

func formatArea(area float64) string {
	return fmt.Sprintf("%.0f sq.ft.", area)
}
