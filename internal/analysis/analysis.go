// Package analysis maps report categories to their reputation impact.
package analysis

import "ghostnseek/backend/internal/config"

// GetWeight returns the reputation penalty for a report category.
// Unknown categories carry no weight.
func GetWeight(category string) int {
	return config.ReportWeights[category]
}
