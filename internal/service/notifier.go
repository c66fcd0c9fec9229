package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/email"
	"bakebot/pkg/logger"
)

// Sender addresses for owner notifications
const (
	FromFeedback = "Bake Ops Feedback <feedback@resend.dev>"
	FromReports  = "BakeBot Reports <reports@resend.dev>"
	FromSurvey   = "BakeBot Survey <onboarding@resend.dev>"
	FromTraction = "BakeBot Traction <onboarding@resend.dev>"
)

// Enqueuer accepts outgoing mail without blocking the caller
type Enqueuer interface {
	Enqueue(msg email.Message) bool
}

var categoryEmoji = map[string]string{
	domain.FeedbackBug:            "🐞",
	domain.FeedbackFeatureRequest: "💡",
	domain.FeedbackUIUX:           "🎨",
	domain.FeedbackOther:          "💬",
}

var ratingEmoji = []string{"😠", "☹️", "😐", "🙂", "❤️"}

// CategoryEmoji returns the emoji used in feedback subjects
func CategoryEmoji(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return "💬"
}

// RatingEmoji maps a 1..5 rating to an emoji, anything else to ❓
func RatingEmoji(rating int) string {
	if rating < 1 || rating > len(ratingEmoji) {
		return "❓"
	}
	return ratingEmoji[rating-1]
}

var templates = template.Must(template.New("emails").Parse(`
{{define "feedback"}}<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eee; border-radius: 12px; padding: 24px;">
<h2 style="color: #FF1CF7; margin-top: 0;">New Beta Feedback</h2>
<p><strong>User:</strong> {{.UserEmail}}</p>
<p><strong>Category:</strong> {{.Category}} {{.CategoryEmoji}}</p>
<p><strong>Rating:</strong> {{.Rating}}/5 {{.RatingEmoji}}</p>
<p><strong>Page:</strong> <a href="{{.PageURL}}">{{.PageURL}}</a></p>
<div style="background: #f9f9f9; padding: 16px; border-radius: 8px; margin: 20px 0;"><p style="margin: 0; font-style: italic;">"{{.Message}}"</p></div>
<details><summary style="cursor: pointer; color: #666; font-size: 12px;">Browser Context</summary><pre style="font-size: 10px; background: #eee; padding: 10px;">{{.BrowserInfo}}</pre></details>
<p style="font-size: 10px; color: #999; text-align: center;">Sent from Bake Ops Beta Program</p>
</div>{{end}}

{{define "survey"}}<h1>Daily Feedback from {{.UserEmail}}</h1>
<p><strong>Rating:</strong> {{.Rating}}/5</p>
<p><strong>Most Valuable Feature:</strong> {{.ValuableFeature}}</p>
<p><strong>One Thing to Change:</strong> {{.ChangeOneThing}}</p>
<p><strong>Suggested Lifetime Price:</strong> ${{.EstimatedValue}}</p>
<hr />
<p>Sent via BakeBot Beta Program</p>{{end}}

{{define "daily"}}<h1>Daily Beta Report</h1>
<p><strong>Unique Active Users:</strong> {{.UniqueUsers}}</p>
<p><strong>Total Interactions:</strong> {{.TotalInteractions}}</p>
<p><strong>Average User Rating:</strong> {{.AverageRating}}/5</p>
<hr />
<h2>Daily Survey Highlights</h2>
{{range .Surveys}}<div style="margin-bottom: 10px; padding: 10px; border: 1px solid #eee;">
<p><strong>Valuable:</strong> {{.Question2}}</p>
<p><strong>Improve:</strong> {{.Question3}}</p>
<p><strong>Valuation:</strong> ${{.ValueRating}}</p>
</div>{{else}}<p>No surveys today.</p>{{end}}{{end}}

{{define "traction"}}<h1>Monthly Traction Report</h1>
<h2>Summary</h2>
<p><strong>Total Waitlist Signups:</strong> {{.TotalSignups}}</p>
<h2>Signups by Role</h2>
<ul>{{range .ByRole}}<li>{{.Name}}: {{.Count}}</li>{{end}}</ul>
<h2>Signups by Source</h2>
<ul>{{range .BySource}}<li>{{.Name}}: {{.Count}}</li>{{end}}</ul>
<h2>Recent Signups (Last 10)</h2>
<ul>{{range .Recent}}<li>{{.Email}} ({{.Role}}) - {{.CreatedAt.Format "2006-01-02"}}</li>{{end}}</ul>{{end}}
`))

// Notifier renders owner notifications and hands them to the mail queue.
// A nil queue or empty owner address disables mail.
type Notifier struct {
	queue  Enqueuer
	owner  string
	logger *logger.Logger
}

// NewNotifier creates a notifier that mails owner
func NewNotifier(queue Enqueuer, owner string, log *logger.Logger) *Notifier {
	return &Notifier{queue: queue, owner: owner, logger: log}
}

// FeedbackSubmitted notifies the owner about a feedback widget submission
func (n *Notifier) FeedbackSubmitted(fb *domain.Feedback) bool {
	browserInfo := ""
	if len(fb.BrowserInfo) > 0 {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, fb.BrowserInfo, "", "  "); err == nil {
			browserInfo = pretty.String()
		} else {
			browserInfo = string(fb.BrowserInfo)
		}
	}

	data := struct {
		*domain.Feedback
		CategoryEmoji string
		RatingEmoji   string
		BrowserInfo   string
	}{fb, CategoryEmoji(fb.Category), RatingEmoji(fb.Rating), browserInfo}

	subject := fmt.Sprintf("%s Beta Feedback: %s (%s)", data.CategoryEmoji, fb.Category, data.RatingEmoji)
	return n.send(FromFeedback, subject, "feedback", data)
}

// SurveySubmitted notifies the owner about a daily survey answer
func (n *Notifier) SurveySubmitted(userEmail string, req domain.SurveyRequest) bool {
	data := struct {
		domain.SurveyRequest
		UserEmail string
	}{req, userEmail}
	return n.send(FromSurvey, "Daily Beta Survey: "+userEmail, "survey", data)
}

// DailyReport mails the daily beta report
func (n *Notifier) DailyReport(report *domain.DailyReport, now time.Time) bool {
	avg := "N/A"
	if report.AverageRating != nil {
		avg = fmt.Sprintf("%.1f", *report.AverageRating)
	}
	data := struct {
		*domain.DailyReport
		AverageRating string
	}{report, avg}
	return n.send(FromReports, "Daily BakeBot Report - "+now.Format("1/2/2006"), "daily", data)
}

type namedCount struct {
	Name  string
	Count int
}

func sortedCounts(m map[string]int) []namedCount {
	out := make([]namedCount, 0, len(m))
	for k, v := range m {
		out = append(out, namedCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TractionReport mails the waitlist traction report
func (n *Notifier) TractionReport(report *domain.TractionReport) bool {
	data := struct {
		TotalSignups int
		ByRole       []namedCount
		BySource     []namedCount
		Recent       []domain.WaitlistSignup
	}{report.TotalSignups, sortedCounts(report.SignupsByRole), sortedCounts(report.SignupsBySource), report.RecentSignups}
	return n.send(FromTraction, "Monthly Traction Report", "traction", data)
}

func (n *Notifier) send(from, subject, tmpl string, data interface{}) bool {
	if n == nil || n.queue == nil || n.owner == "" {
		return false
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		n.logger.WithError(err).WithField("template", tmpl).Error("Failed to render email")
		return false
	}

	return n.queue.Enqueue(email.Message{
		From:    from,
		To:      []string{n.owner},
		Subject: subject,
		HTML:    body.String(),
	})
}
