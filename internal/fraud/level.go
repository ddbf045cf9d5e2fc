// internal/fraud/level.go
package fraud

// RiskLevel is a coarse bucket of a risk score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// LevelFor maps a score to low (<30), medium (<60) or high.
func LevelFor(score int) RiskLevel {
	switch {
	case score < 30:
		return RiskLevelLow
	case score < 60:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}
