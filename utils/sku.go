package utils

import "strings"

// NormalizarSKU canonicalizes a SKU for comparison: whitespace trimmed,
// lower-cased, leading zeros stripped. "00480", "480" and " 480 " all
// normalize to "480". An all-zeros SKU keeps a single "0" so it still takes
// part in SKU matching instead of reading as absent. Normalizing twice yields
// the same result.
func NormalizarSKU(sku string) string {
	s := strings.ToLower(strings.TrimSpace(sku))
	recortado := strings.TrimLeft(s, "0")
	if recortado == "" && s != "" {
		return "0"
	}
	return recortado
}

// NormalizarNombre canonicalizes a product name for equality matching.
func NormalizarNombre(nombre string) string {
	return strings.ToLower(strings.TrimSpace(nombre))
}
