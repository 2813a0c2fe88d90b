package services

import (
	"strings"
	"text/template"

	"github.com/fivealab/planner/data"
)

var guidanceSources = map[string]string{
	GuidanceVolatile:   data.GuidanceVolatile,
	GuidanceImbalanced: data.GuidanceImbalanced,
	GuidanceStruggling: data.GuidanceStruggling,
	GuidanceMastery:    data.GuidanceMastery,
}

// guidanceContext is the data handed to a guidance template.
type guidanceContext struct {
	RealName     string
	Overall      float64
	MaxGap       int
	BestSubject  string
	BestMean     float64
	WorstSubject string
	WorstMean    float64
}

// RenderGuidance fills the guidance template selected by a progress
// report with the student's numbers and returns the finished text.
func RenderGuidance(report *ProgressReport, realName string) (string, error) {
	src, ok := guidanceSources[report.Guidance]
	if !ok {
		return "", ErrNotFound
	}

	ctx := guidanceContext{
		RealName: realName,
		Overall:  report.Overall,
	}
	for _, s := range report.Subjects {
		if s.Gap > ctx.MaxGap {
			ctx.MaxGap = s.Gap
		}
	}
	if len(report.Subjects) > 0 {
		best := report.Subjects[0]
		worst := report.Subjects[len(report.Subjects)-1]
		ctx.BestSubject = best.Subject
		ctx.BestMean = best.Mean
		ctx.WorstSubject = worst.Subject
		ctx.WorstMean = worst.Mean
	}

	tmpl, err := template.New(report.Guidance).Parse(src)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
