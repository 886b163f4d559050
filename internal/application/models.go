// Package application implements the job-application submission pipeline:
// validate, load credentials, render, decode, verify, send.
package application

import (
	"careers-api/internal/jobs"
)

// Request is the body of POST /api/email.
type Request struct {
	Job           *Job     `json:"job"`
	Answers       []string `json:"answers"`
	File          *File    `json:"file"`
	RecipientList []string `json:"recipientList"`
}

// Job is the subset of the listing descriptor the email needs. Missing
// fields render as blank text.
type Job struct {
	Title           string          `json:"Title"`
	EmploymentType  string          `json:"Employment_type"`
	ExperienceLevel string          `json:"Experience_level"`
	JobLocation     string          `json:"Job_Location"`
	WorkMode        string          `json:"Work_Mode"`
	Questions       []string        `json:"Questions,omitempty"`
	Email           jobs.StringList `json:"email,omitempty"`
}

// File is the uploaded résumé. Content is base64.
type File struct {
	Filename    string  `json:"filename"`
	Content     string  `json:"content"`
	ContentType string  `json:"content_type"`
	Size        float64 `json:"size"`
}

// Result is returned on a successful submission.
type Result struct {
	MessageID string `json:"messageId"`
}

const SuccessMessage = "Application submitted successfully"

// Outcome labels used for metrics.
const (
	OutcomeSuccess = "success"
)
