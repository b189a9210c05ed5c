package utils

import (
	"strconv"
	"strings"
)

// FormatPesos formats a whole-peso amount as a string like "$12.500", with dot
// as thousands separator. Catalog prices are stored as integers; there are no
// cents to render.
func FormatPesos(monto int64) string {
	neg := monto < 0
	if neg {
		monto = -monto
	}

	s := strconv.FormatInt(monto, 10)
	if len(s) <= 3 {
		if neg {
			return "-$" + s
		}
		return "$" + s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
