// Package jobs reads job listings from the listing collaborator, derives URL
// slugs and prepares the normalised detail view of a single job.
package jobs

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Job is one entry of the listing feed. Field names follow the feed. The
// typed fields hold flattened values for slugs and the detail view; the feed
// document itself is kept and served back unchanged.
type Job struct {
	Title                     string     `json:"Title"`
	ClientName                Text       `json:"Client_Name,omitempty"`
	ClientIndustry            Text       `json:"Client_Industry,omitempty"`
	SalaryRange               StringList `json:"Salary_Range,omitempty"`
	Currency                  Text       `json:"Currency,omitempty"`
	JobLocation               Text       `json:"Job_Location,omitempty"`
	ExperienceLevel           Text       `json:"Experience_level,omitempty"`
	YearsOfExperienceRequired StringList `json:"Years_of_Experience_Required,omitempty"`
	EmploymentType            Text       `json:"Employment_type,omitempty"`
	WorkMode                  Text       `json:"Work_Mode,omitempty"`
	RequiredSkills            StringList `json:"Required_skills,omitempty"`
	EducationalQualifications StringList `json:"Educational_Qualifications,omitempty"`
	Certifications            StringList `json:"Certifications,omitempty"`
	OtherBenefits             StringList `json:"Other_Benefits,omitempty"`
	NumberOfOpenings          Text       `json:"Number_of_Openings,omitempty"`
	JobDescription            string     `json:"Job_Description,omitempty"`
	Questions                 StringList `json:"Questions,omitempty"`
	Email                     StringList `json:"email,omitempty"`

	raw map[string]json.RawMessage
}

type plainJob Job

// UnmarshalJSON decodes the typed fields leniently: a value of an unexpected
// shape leaves its field empty instead of rejecting the job.
func (j *Job) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var p plainJob
	if err := json.Unmarshal(data, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}

	*j = Job(p)
	j.raw = raw
	return nil
}

// MarshalJSON writes the feed document as received, or the typed fields for
// a job built in code.
func (j Job) MarshalJSON() ([]byte, error) {
	if j.raw != nil {
		return json.Marshal(j.raw)
	}
	return json.Marshal(plainJob(j))
}

func (j Job) fields() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(j.raw)+1)
	if j.raw != nil {
		for k, v := range j.raw {
			out[k] = v
		}
		return out, nil
	}
	data, err := json.Marshal(plainJob(j))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Listing is a job plus its slug, as returned by GET /api/jobs.
type Listing struct {
	Job
	Slug string `json:"slug"`
}

func (l Listing) MarshalJSON() ([]byte, error) {
	fields, err := l.Job.fields()
	if err != nil {
		return nil, err
	}
	slug, err := json.Marshal(l.Slug)
	if err != nil {
		return nil, err
	}
	fields["slug"] = slug
	return json.Marshal(fields)
}

func (l *Listing) UnmarshalJSON(data []byte) error {
	if err := l.Job.UnmarshalJSON(data); err != nil {
		return err
	}
	var s struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	l.Slug = s.Slug
	delete(l.Job.raw, "slug")
	return nil
}

// ListingsResponse is the envelope used by the feed and by GET /api/jobs.
type ListingsResponse struct {
	JobListings []Job `json:"job_listings"`
}

// Text is a scalar that tolerates numbers and booleans where a string is
// expected. Arrays are joined with ", ".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	list, err := decodeFlexible(data)
	if err != nil {
		return err
	}
	*t = Text(strings.Join(list, ", "))
	return nil
}

func (t Text) String() string {
	return string(t)
}

// StringList accepts either a single value or an array of values.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	list, err := decodeFlexible(data)
	if err != nil {
		return err
	}
	*l = list
	return nil
}

func decodeFlexible(data []byte) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, s)
			}
		}
		return out, nil
	}

	s, ok, err := scalarString(data)
	if err != nil || !ok {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	return []string{s}, nil
}

func scalarString(data json.RawMessage) (string, bool, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", false, err
	}
	switch val := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return val, true, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(val), true, nil
	default:
		// objects and nested arrays have no flat form
		return "", false, nil
	}
}
