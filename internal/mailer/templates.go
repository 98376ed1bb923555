package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// InvitationEmailData holds data for the invitation e-mail document
type InvitationEmailData struct {
	OrgName     string
	InviterName string
	Role        string
	SignupURL   string
	ExpiresAt   time.Time
}

// BuildInvitationEmail creates the invitation message with an inline
// call-to-action link. From and To are set by the caller.
func BuildInvitationEmail(data InvitationEmailData) Message {
	return Message{
		Subject: fmt.Sprintf("You have been invited to %s", data.OrgName),
		HTML:    renderInvitationHTML(data),
	}
}

// BuildTestEmail creates the plain configuration-test message used to verify
// the e-mail integration from the admin console
func BuildTestEmail(orgName string) Message {
	return Message{
		Subject: fmt.Sprintf("%s e-mail configuration test", orgName),
		HTML: fmt.Sprintf(
			`<p>This is a test message from <strong>%s</strong>. If you are reading this, the transactional e-mail integration works.</p>`,
			template.HTMLEscapeString(orgName)),
	}
}

func renderInvitationHTML(data InvitationEmailData) string {
	tmpl := template.Must(template.New("invitation").Funcs(template.FuncMap{
		"fmtDate": func(t time.Time) string { return t.Format("January 2, 2006") },
	}).Parse(invitationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const invitationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Invitation</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.OrgName}}</h1>
            </td>
          </tr>

          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                {{if .InviterName}}{{.InviterName}} has invited you{{else}}You have been invited{{end}} to join {{.OrgName}} as <strong>{{.Role}}</strong>.
              </p>

              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.SignupURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Accept Invitation
                    </a>
                  </td>
                </tr>
              </table>

              {{if not .ExpiresAt.IsZero}}
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                This invitation expires on {{fmtDate .ExpiresAt}}.
              </p>
              {{end}}
            </td>
          </tr>

          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you were not expecting this invitation, you can safely ignore this e-mail.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
