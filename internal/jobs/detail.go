package jobs

import "strings"

// Detail is the normalised view of one job.
type Detail struct {
	Job                       Job      `json:"job"`
	Slug                      string   `json:"slug"`
	ExperienceRange           string   `json:"experienceRange"`
	EducationalQualifications string   `json:"educationalQualifications"`
	Certifications            string   `json:"certifications"`
	SanitizedDescription      string   `json:"sanitizedDescription"`
	Metadata                  Metadata `json:"metadata"`
}

type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewDetail(job Job) *Detail {
	return &Detail{
		Job:                       job,
		Slug:                      Slug(job.Title),
		ExperienceRange:           joinOr(job.YearsOfExperienceRequired, "-", "N/A"),
		EducationalQualifications: joinOr(job.EducationalQualifications, ", ", "None"),
		Certifications:            joinOr(job.Certifications, ", ", "None"),
		SanitizedDescription:      SanitizeDescription(job.JobDescription),
		Metadata:                  NewMetadata(job),
	}
}

func NewMetadata(job Job) Metadata {
	company := job.ClientName.String()
	if company == "" {
		company = "Company"
	}
	return Metadata{
		Title:       job.Title + " | Job Listing",
		Description: "Apply for " + job.Title + " at " + company + " in " + job.JobLocation.String(),
	}
}

func joinOr(values StringList, sep, fallback string) string {
	joined := strings.Join(values, sep)
	if joined == "" {
		return fallback
	}
	return joined
}
