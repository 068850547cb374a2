package order

import (
	"fmt"
	"math/big"
	"strings"
)

// TokenDecimals is the fractional precision of the loan currency.
const TokenDecimals = 6

var tokenUnit = big.NewInt(1_000_000)

// FormatAmount renders a smallest-unit amount as a decimal token amount,
// e.g. 100500000 -> "100.500000".
func FormatAmount(v *big.Int) string {
	if v == nil {
		return "0.000000"
	}
	q, r := new(big.Int).QuoRem(v, tokenUnit, new(big.Int))
	sign := ""
	if q.Sign() < 0 || r.Sign() < 0 {
		sign = "-"
		q.Abs(q)
		r.Abs(r)
	}
	return fmt.Sprintf("%s%s.%06d", sign, q.String(), r)
}

// FormatRateBps renders basis points as a percentage, e.g. 500 -> "5.00%".
func FormatRateBps(bps uint64) string {
	return fmt.Sprintf("%d.%02d%%", bps/100, bps%100)
}

// FormatDuration renders a loan term in whole days.
func FormatDuration(seconds uint64) string {
	days := seconds / 86400
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// ShortAddress abbreviates a canonical address for log lines.
func ShortAddress(addr string) string {
	addr = strings.ToLower(addr)
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
