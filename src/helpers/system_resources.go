package helpers

// GetRecommendedMemoryLimit calculates a safe memory budget in MB for
// retained analysis results.
// Default policy: 75% of Total RAM.
// Fallback: 512MB when the OS probe fails.
func GetRecommendedMemoryLimit(log func(format string, args ...interface{})) int {
	totalMB := GetTotalSystemMemoryMB()
	if totalMB == 0 {
		if log != nil {
			log("Could not determine system memory. Defaulting to 512MB.")
		}
		return 512
	}

	limit := int(float64(totalMB) * 0.75)

	// At least 512MB on systems that have it; on very low memory
	// systems use whatever is there.
	if limit < 512 {
		if totalMB < 512 {
			return totalMB
		}
		return 512
	}

	return limit
}
