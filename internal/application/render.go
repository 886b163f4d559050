package application

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"
)

// Fixed questions that precede the job-specific ones.
var baseQuestions = []string{
	"What is your Name?",
	"What is your Email?",
}

const (
	noAnswerPlaceholder = "No answer provided"
	receivedDateLayout  = "Monday, January 2, 2006"
)

// Questions returns the question list the answers are aligned with.
func Questions(job *Job) []string {
	questions := make([]string, 0, len(baseQuestions)+len(job.Questions))
	questions = append(questions, baseQuestions...)
	return append(questions, job.Questions...)
}

// Subject returns the email subject for job.
func Subject(job *Job) string {
	return fmt.Sprintf("New Application for %s - %s", job.Title, job.EmploymentType)
}

// KiBLabel formats a byte size as kibibytes with two decimals, rounding
// halves up.
func KiBLabel(size float64) string {
	n := int64(math.Round(size))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	hundredths := (n*200 + 1024) / 2048
	return fmt.Sprintf("%s%d.%02d KB", sign, hundredths/100, hundredths%100)
}

type responseRow struct {
	Question string
	Answer   template.HTML
	Answered bool
}

type detailRow struct {
	Label string
	Value string
}

type emailView struct {
	Job       *Job
	Received  string
	Responses []responseRow
	Details   []detailRow
	Filename  string
	SizeLabel string
	NoAnswer  string
}

// Renderer produces the HTML body of the application email. Rendering is
// best effort: missing fields render as blank text.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewRenderer(now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		tmpl: template.Must(template.New("application").Parse(emailTemplate)),
		now:  now,
	}
}

func (r *Renderer) Render(job *Job, answers []string, file *File) (string, error) {
	if job == nil {
		job = &Job{}
	}
	if file == nil {
		file = &File{}
	}

	questions := Questions(job)
	responses := make([]responseRow, len(questions))
	for i, q := range questions {
		row := responseRow{Question: q}
		if i < len(answers) && answers[i] != "" {
			row.Answered = true
			row.Answer = answerHTML(answers[i])
		}
		responses[i] = row
	}

	view := emailView{
		Job:       job,
		Received:  r.now().Format(receivedDateLayout),
		Responses: responses,
		Details: []detailRow{
			{Label: "Position", Value: job.Title},
			{Label: "Experience Level", Value: job.ExperienceLevel},
			{Label: "Employment Type", Value: job.EmploymentType},
			{Label: "Work Mode", Value: job.WorkMode},
			{Label: "Location", Value: job.JobLocation},
		},
		Filename:  file.Filename,
		SizeLabel: KiBLabel(file.Size),
		NoAnswer:  noAnswerPlaceholder,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render application email: %w", err)
	}
	return buf.String(), nil
}

// answerHTML escapes the answer and turns newlines into <br>.
func answerHTML(answer string) template.HTML {
	escaped := template.HTMLEscapeString(answer)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

const emailTemplate = `
<div style="max-width: 680px; margin: 0 auto; background: #fff; border-radius: 14px; font-family: 'Inter', 'Segoe UI', Arial, Helvetica, sans-serif; color: #222; box-shadow: 0 4px 32px 0 rgba(44,62,80,.07); overflow: hidden;">
  <div style="background: #0c2f56; padding: 32px 36px 20px 36px;">
    <h1 style="margin: 0; font-size: 2.1em; color: #fff; font-weight: 700; letter-spacing: -0.4px;">New Application for <span style="color: #47b6ff;">{{.Job.Title}}</span></h1>
    <p style="margin: 8px 0 0; color: #e9eef3; font-size: 1.08em;">{{.Job.EmploymentType}} • {{.Job.ExperienceLevel}}</p>
    <p style="margin: 0; margin-top: 7px; color: #c9d5ee; font-size: 0.98em;">{{.Job.JobLocation}} • {{.Job.WorkMode}}</p>
    <p style="margin: 0; color: #54d2d2; font-size: 0.98em; margin-top: 10px;"><b style="opacity: .79">Received:</b> {{.Received}}</p>
  </div>
  <div style="padding: 36px; background: #f7fafd;">
    <div style="margin-bottom: 14px;">
      <p style="font-size: 1.11em; margin: 0 0 4px 0; color: #0c2f56;">👤 <b>Candidate</b>&nbsp; responses</p>
    </div>
    <table style="background: #fff; border-radius: 10px; width: 100%; border-collapse: separate; border-spacing: 0 14px;">
      <tbody>
{{- range .Responses}}
        <tr style="box-shadow: 0 1.5px 12px 0 rgba(30,95,165,0.04);">
          <td style="padding: 14px 22px 10px 0; min-width: 120px; font-weight: 500; color: #222; font-size: 1.06em;">{{.Question}}</td>
          <td style="padding: 14px 0 10px 0; color: #414b65; font-size: 1.06em; line-height: 1.45; border-bottom: 1px solid #f1f5fa;">{{if .Answered}}{{.Answer}}{{else}}<span style="opacity:.64;">{{$.NoAnswer}}</span>{{end}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
    <div style="margin: 40px 0 22px 0;">
      <p style="font-size: 1.08em; color: #0c2f56; margin-bottom: 8px;"><b>Job Details</b></p>
      <table style="background: #f6fafd; border-radius: 10px; width: 100%; border-collapse: collapse;">
        <tbody style="font-size:1.05em;">
{{- range .Details}}
          <tr>
            <td style="padding: 10px 18px 5px 0; color: #7d889e; min-width:170px;">{{.Label}}</td>
            <td style="padding: 10px 0 5px 0; color: #24324b; font-weight: 500;">{{.Value}}</td>
          </tr>
{{- end}}
          <tr>
            <td style="padding: 10px 18px 10px 0; color: #7d889e; min-width:170px;">CV Attachment</td>
            <td style="padding: 10px 0 10px 0; color: #3267a8;">
              <span style="display: inline-block; background: #e9f5fe; color: #2476e4; border-radius: 7px; padding: 7px 13px; font-family:monospace; font-size: 0.97em;">{{.Filename}} <span style="opacity:.7; font-size:0.92em;">({{.SizeLabel}})</span></span>
            </td>
          </tr>
        </tbody>
      </table>
    </div>
  </div>
  <div style="background:#f6fafd; padding: 18px 30px; text-align: center; font-size:1em; border-top:1px solid #e6eaf3;">
    <span style="color: #91a0ba;">Sent via <a href="https://getsetdeployed.com/" target="_blank" style="color:#258cff; text-decoration:none; font-weight:500;">GetSetDeployed</a></span>
  </div>
</div>
`
