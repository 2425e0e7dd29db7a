// Package analytics derives summary statistics from a feedback collection.
// Everything here is a pure function of its input.
package analytics

import (
	"math"

	"feedback-analytics/internal/models"
)

const (
	minRating = 1
	maxRating = 5
)

// Compute builds a snapshot over records. Averages divide by the full record
// count, so a record without a given rating pulls that average towards zero.
// Only CourseRating feeds the histogram.
func Compute(records []models.Feedback) models.Analytics {
	snap := models.Analytics{
		ByRating:     emptyHistogram(),
		ByCourse:     map[string]int{},
		ByInstructor: map[string]int{},
	}

	total := len(records)
	if total == 0 {
		return snap
	}

	var courseSum, instructorSum, servicesSum float64
	for _, f := range records {
		courseSum += float64(f.CourseRating)
		instructorSum += float64(f.InstructorRating)
		servicesSum += float64(f.ServicesRating)

		if f.CourseRating >= minRating && f.CourseRating <= maxRating {
			snap.ByRating[f.CourseRating]++
		}
		if f.Course != "" {
			snap.ByCourse[f.Course]++
		}
		if f.Instructor != "" {
			snap.ByInstructor[f.Instructor]++
		}
	}

	snap.Total = total
	snap.AvgCourseRating = average(courseSum, total)
	snap.AvgInstructorRating = average(instructorSum, total)
	snap.AvgServicesRating = average(servicesSum, total)
	return snap
}

func emptyHistogram() map[int]int {
	h := make(map[int]int, maxRating)
	for r := minRating; r <= maxRating; r++ {
		h[r] = 0
	}
	return h
}

func average(sum float64, n int) float64 {
	return Round2(sum / float64(n))
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
