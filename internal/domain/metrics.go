package domain

import (
	"encoding/json"
	"math"
)

// missingMetricValue is counted for every metric an analysis record omits.
// A missing metric reads as a perfect score.
const missingMetricValue = 100.0

// Grade letter thresholds, inclusive at their lower bound.
const (
	gradeA = 90.0
	gradeB = 80.0
	gradeC = 70.0
	gradeD = 60.0
)

// SecuritySummary holds the issue counters of the security dashboard.
type SecuritySummary struct {
	TotalOpen    int `json:"totalOpen"`
	TotalClosed  int `json:"totalClosed"`
	OnTrack      int `json:"onTrack"`
	ClosedOnTime int `json:"closedOnTime"`
}

// RepositoryAnalysis is one per-repository analysis record.
// Nil fields were absent from the upstream payload.
type RepositoryAnalysis struct {
	Grade                          *float64 `json:"grade,omitempty"`
	CoveragePercentageWithDecimals *float64 `json:"coveragePercentageWithDecimals,omitempty"`
	IssuesPercentage               *float64 `json:"issuesPercentage,omitempty"`
	ComplexFilesPercentage         *float64 `json:"complexFilesPercentage,omitempty"`
	DuplicationPercentage          *float64 `json:"duplicationPercentage,omitempty"`
}

// ComponentMetrics is the findings summary of one component.
//
// Averages are NaN when the component has no analysed repositories.
type ComponentMetrics struct {
	Grade                  float64
	GradeLetter            string
	CodeCoverage           float64
	IssuesPercentage       float64
	ComplexFilesPercentage float64
	DuplicationPercentage  float64
	TotalOpen              int
	TotalClosed            int
	OnTrack                int
	ClosedOnTime           int
}

type componentMetricsJSON struct {
	Grade                  *float64 `json:"grade"`
	GradeLetter            string   `json:"gradeLetter"`
	CodeCoverage           *float64 `json:"codeCoverage"`
	IssuesPercentage       *float64 `json:"issuesPercentage"`
	ComplexFilesPercentage *float64 `json:"complexFilesPercentage"`
	DuplicationPercentage  *float64 `json:"duplicationPercentage"`
	TotalOpen              int      `json:"totalOpen"`
	TotalClosed            int      `json:"totalClosed"`
	OnTrack                int      `json:"onTrack"`
	ClosedOnTime           int      `json:"closedOnTime"`
}

// MarshalJSON encodes NaN averages as null.
func (m ComponentMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(componentMetricsJSON{
		Grade:                  finiteOrNil(m.Grade),
		GradeLetter:            m.GradeLetter,
		CodeCoverage:           finiteOrNil(m.CodeCoverage),
		IssuesPercentage:       finiteOrNil(m.IssuesPercentage),
		ComplexFilesPercentage: finiteOrNil(m.ComplexFilesPercentage),
		DuplicationPercentage:  finiteOrNil(m.DuplicationPercentage),
		TotalOpen:              m.TotalOpen,
		TotalClosed:            m.TotalClosed,
		OnTrack:                m.OnTrack,
		ClosedOnTime:           m.ClosedOnTime,
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// GradeLetterFor buckets an average grade into A-F.
func GradeLetterFor(avg float64) string {
	switch {
	case avg >= gradeA:
		return "A"
	case avg >= gradeB:
		return "B"
	case avg >= gradeC:
		return "C"
	case avg >= gradeD:
		return "D"
	default:
		return "F"
	}
}

// Aggregate averages the analysis records and combines them with the
// security counters.
//
// The division is not guarded: an empty slice yields NaN averages and an F.
func Aggregate(security SecuritySummary, analyses []RepositoryAnalysis) ComponentMetrics {
	var grade, coverage, issues, complexFiles, duplication float64
	for _, a := range analyses {
		grade += valueOrMissing(a.Grade)
		coverage += valueOrMissing(a.CoveragePercentageWithDecimals)
		issues += valueOrMissing(a.IssuesPercentage)
		complexFiles += valueOrMissing(a.ComplexFilesPercentage)
		duplication += valueOrMissing(a.DuplicationPercentage)
	}

	n := float64(len(analyses))
	avgGrade := grade / n

	return ComponentMetrics{
		Grade:                  avgGrade,
		GradeLetter:            GradeLetterFor(avgGrade),
		CodeCoverage:           coverage / n,
		IssuesPercentage:       issues / n,
		ComplexFilesPercentage: complexFiles / n,
		DuplicationPercentage:  duplication / n,
		TotalOpen:              security.TotalOpen,
		TotalClosed:            security.TotalClosed,
		OnTrack:                security.OnTrack,
		ClosedOnTime:           security.ClosedOnTime,
	}
}

func valueOrMissing(v *float64) float64 {
	if v == nil {
		return missingMetricValue
	}
	return *v
}
