// internal/workers/application/send-confirmation/templates.go
package sendconfirmation

import (
	"fmt"
	"strings"

	"interview-portal/internal/models"
)

var templates = map[string]models.NotificationTemplate{
	TypeApplicationReceived: {
		Type:     TypeApplicationReceived,
		Subject:  "We received your application",
		Body:     "Hi {{applicantName}}, thanks for applying to job {{jobId}}. Your application reference is {{applicationId}}.",
		HTMLBody: "<p>Hi {{applicantName}},</p><p>Thanks for applying to job <b>{{jobId}}</b>.</p><p>Your application reference is {{applicationId}}.</p>",
	},
}

// render substitutes {{key}} placeholders and drops any left unresolved.
func render(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}

// smsText is the plain body without the reference line, kept short for SMS.
func smsText(data map[string]interface{}) string {
	return render("Thanks for applying to job {{jobId}}. Ref {{applicationId}}.", data)
}
