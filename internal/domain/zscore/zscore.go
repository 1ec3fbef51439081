// Package zscore standardizes statistics within role cohorts.
package zscore

import (
	"gonum.org/v1/gonum/stat"

	"github.com/okian/squadrank/internal/domain/model"
)

// ZeroSpread is the standard deviation at or below which a cohort is treated
// as having no spread.
const ZeroSpread = 1e-8

// Eligible reports whether minutes meets floor.
func Eligible(minutes model.Value, floor float64) bool {
	return minutes.Ok && minutes.V >= floor
}

// Moments returns the population mean and standard deviation of the
// defined values. ok is false when none are defined.
func Moments(values []model.Value) (mean, std float64, ok bool) {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Ok {
			xs = append(xs, v.V)
		}
	}
	if len(xs) == 0 {
		return 0, 0, false
	}
	mean, std = stat.PopMeanStdDev(xs, nil)
	return mean, std, true
}

// ByRole standardizes values within each role's eligible cohort. Every
// output is defined: players outside a cohort, players missing the value,
// and whole cohorts without spread get 0.0.
func ByRole(values []model.Value, roles []model.Role, minutes []model.Value, floor float64) []float64 {
	out := make([]float64, len(values))
	for _, r := range model.Roles {
		var cohort []int
		for i := range values {
			if roles[i] == r && Eligible(minutes[i], floor) {
				cohort = append(cohort, i)
			}
		}
		if len(cohort) == 0 {
			continue
		}
		sample := make([]model.Value, len(cohort))
		for k, i := range cohort {
			sample[k] = values[i]
		}
		mean, std, ok := Moments(sample)
		if !ok || std <= ZeroSpread {
			continue
		}
		for _, i := range cohort {
			if values[i].Ok {
				out[i] = (values[i].V - mean) / std
			}
		}
	}
	return out
}
