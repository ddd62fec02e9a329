package svg

import (
	"hash/fnv"
	"strings"
)

// Palette is the fixed set of series colors.
var Palette = []string{
	"#1d4ed8", "#dc2626", "#16a34a", "#f59e0b", "#7c3aed",
	"#0891b2", "#db2777", "#65a30d", "#ea580c", "#4f46e5",
	"#0d9488", "#b91c1c", "#ca8a04", "#9333ea", "#0284c7",
	"#be123c", "#15803d", "#c2410c", "#6d28d9", "#475569",
}

// ColorFor maps key to a palette color. The mapping depends only on the key,
// so a team keeps its color across fetches and pages.
func ColorFor(key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(key))))
	return Palette[h.Sum32()%uint32(len(Palette))]
}
