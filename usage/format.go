package usage

import "github.com/dustin/go-humanize"

// FormatSpend renders minor currency units as a dollar string with comma
// thousands separators and two decimals, e.g. 132012 -> "$ 1,320.12".
func FormatSpend(cents int64) string {
	return "$ " + humanize.FormatFloat("#,###.##", float64(cents)/100)
}
