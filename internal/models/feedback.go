package models

import "time"

// Feedback is a single submitted rating entry. Records are immutable once
// appended; ID and Timestamp are assigned by the repository.
type Feedback struct {
	ID               int64     `json:"id"`
	Author           string    `json:"author"`
	Course           string    `json:"course"`
	Instructor       string    `json:"instructor"`
	CourseRating     int       `json:"courseRating"`
	InstructorRating int       `json:"instructorRating"`
	ServicesRating   int       `json:"servicesRating"`
	Comments         string    `json:"comments,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// FeedbackInput is what a caller supplies on submission. Ratings are not
// range-checked; a missing rating is 0.
type FeedbackInput struct {
	Author           string `json:"author"`
	Course           string `json:"course"`
	Instructor       string `json:"instructor"`
	CourseRating     int    `json:"courseRating"`
	InstructorRating int    `json:"instructorRating"`
	ServicesRating   int    `json:"servicesRating"`
	Comments         string `json:"comments"`
}

// Analytics is derived from the current collection on every read and never stored.
type Analytics struct {
	Total               int            `json:"total"`
	AvgCourseRating     float64        `json:"avgCourseRating"`
	AvgInstructorRating float64        `json:"avgInstructorRating"`
	AvgServicesRating   float64        `json:"avgServicesRating"`
	ByRating            map[int]int    `json:"byRating"`
	ByCourse            map[string]int `json:"byCourse"`
	ByInstructor        map[string]int `json:"byInstructor"`
}
