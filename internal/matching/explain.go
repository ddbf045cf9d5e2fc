// internal/matching/explain.go
package matching

import "fmt"

// explain lists the notable reasons behind a match. It is a set of hints,
// not a full factor log.
func explain(p *Professional, f FactorScores, cal *Calibration) []string {
	reasons := make([]string, 0, 6)

	if f.Rating >= cal.NotableFactorScore {
		reasons = append(reasons, fmt.Sprintf("excellent rating of %.1f stars", p.Rating))
	}
	if f.Distance >= cal.NotableFactorScore {
		reasons = append(reasons, "very close to you")
	}
	if p.IsVerified {
		reasons = append(reasons, "verified professional")
	}
	if p.IsPremium {
		reasons = append(reasons, "premium professional")
	}
	if f.Experience >= cal.NotableFactorScore {
		reasons = append(reasons, fmt.Sprintf("%d+ years experience", p.YearsExperience))
	}
	if p.TotalJobsCompleted >= cal.NotableJobCount {
		reasons = append(reasons, fmt.Sprintf("%d jobs completed", p.TotalJobsCompleted))
	}

	return reasons
}
