package application

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "careers-api/internal/common/errors"
)

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"job": map[string]interface{}{
			"Title":            "Senior Go Engineer",
			"Employment_type":  "Full-time",
			"Experience_level": "Senior",
			"Job_Location":     "Pune",
			"Work_Mode":        "Hybrid",
			"Questions":        []string{"Why Go?", "Notice period?"},
			"email":            "hr@acme.com",
		},
		"answers": []string{"Ada Lovelace", "ada@example.com", "Because\nit is simple"},
		"file": map[string]interface{}{
			"filename":     "cv.pdf",
			"content":      "JVBERi0xLjQ=",
			"content_type": "application/pdf",
			"size":         2048,
		},
		"recipientList": []string{"a@x.com", "b@y.com"},
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %v", err)
	return stdErr.Code
}

func TestParseRequest_Valid(t *testing.T) {
	req, err := ParseRequest(mustJSON(t, validPayload()))
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", req.Job.Title)
	assert.Equal(t, []string{"Why Go?", "Notice period?"}, req.Job.Questions)
	assert.Equal(t, []string{"hr@acme.com"}, []string(req.Job.Email))
	assert.Equal(t, float64(2048), req.File.Size)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, req.RecipientList)
}

func TestParseRequest_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p map[string]interface{})
	}{
		{"job absent", func(p map[string]interface{}) { delete(p, "job") }},
		{"answers absent", func(p map[string]interface{}) { delete(p, "answers") }},
		{"file absent", func(p map[string]interface{}) { delete(p, "file") }},
		{"recipientList absent", func(p map[string]interface{}) { delete(p, "recipientList") }},
		{"recipientList empty", func(p map[string]interface{}) { p["recipientList"] = []string{} }},
		{"job null", func(p map[string]interface{}) { p["job"] = nil }},
		{"file null", func(p map[string]interface{}) { p["file"] = nil }},
		{"missing wins over wrong type", func(p map[string]interface{}) {
			delete(p, "file")
			p["answers"] = "not a list"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)

			_, err := ParseRequest(mustJSON(t, p))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeMissingRequiredFields, errorCode(t, err))
		})
	}
}

func TestParseRequest_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"not json", []byte("hello")},
		{"array body", []byte(`[]`)},
		{"answers wrong type", func() []byte {
			p := validPayload()
			p["answers"] = "Ada"
			return mustJSON(t, p)
		}()},
		{"size wrong type", func() []byte {
			p := validPayload()
			p["file"].(map[string]interface{})["size"] = "2kb"
			return mustJSON(t, p)
		}()},
		{"null recipient", func() []byte {
			p := validPayload()
			p["recipientList"] = []interface{}{nil}
			return mustJSON(t, p)
		}()},
		{"recipient header injection", func() []byte {
			p := validPayload()
			p["recipientList"] = []string{"a@x.com\r\nBcc: victim@example.com"}
			return mustJSON(t, p)
		}()},
		{"recipient not an address", func() []byte {
			p := validPayload()
			p["recipientList"] = []string{"a@x.com", "hiring team"}
			return mustJSON(t, p)
		}()},
		{"title wrong type", func() []byte {
			p := validPayload()
			p["job"].(map[string]interface{})["Title"] = 42
			return mustJSON(t, p)
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.body)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidApplicationPayload, errorCode(t, err))
		})
	}
}

func TestParseRequest_LenientJob(t *testing.T) {
	p := validPayload()
	p["job"] = map[string]interface{}{}
	p["answers"] = []interface{}{"Ada", nil}

	req, err := ParseRequest(mustJSON(t, p))
	require.NoError(t, err)
	assert.Equal(t, "", req.Job.Title)
	assert.Equal(t, []string{"Ada", ""}, req.Answers)
}

func TestParseRequest_EmailArray(t *testing.T) {
	p := validPayload()
	p["job"].(map[string]interface{})["email"] = []string{"a@x.com", "b@y.com"}

	req, err := ParseRequest(mustJSON(t, p))
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, []string(req.Job.Email))
}

func TestRequest_Validate(t *testing.T) {
	err := (&Request{}).Validate()
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Contains(t, stdErr.Details, "job, answers, file, recipientList")
	assert.Equal(t, apperrors.MsgMissingRequiredFields, stdErr.Message)
}

func TestRequest_ValidateRejectsInjectedRecipient(t *testing.T) {
	req := &Request{
		Job:           &Job{Title: "QA Lead"},
		Answers:       []string{"Ada"},
		File:          &File{Filename: "cv.pdf"},
		RecipientList: []string{"a@x.com", "b@y.com\nSubject: hijacked"},
	}

	err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidApplicationPayload, errorCode(t, err))
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	req.RecipientList = []string{"a@x.com", "b@y.com"}
	assert.NoError(t, req.Validate())
}
