package engine

// palette is the fixed avatar color list; a joining user's color is
// palette[len(users) % len(palette)] evaluated at join time.
var palette = [...]string{
	"#FF5722", "#FF9800", "#FFC107", "#4CAF50",
	"#2196F3", "#9C27B0", "#E91E63", "#00BCD4",
	"#8BC34A", "#FF5252", "#69F0AE", "#40C4FF",
}

func colorForIndex(i int) string {
	return palette[i%len(palette)]
}
