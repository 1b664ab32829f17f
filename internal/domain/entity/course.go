package entity

import "time"

// Course links a timesheet to its supervising lecturer. The engine consumes
// this as a resolved relationship fact; it never queries course assignments.
type Course struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	LecturerID int64     `json:"lecturer_id"`
	CreatedAt  time.Time `json:"created_at"`
}
