package core

import (
	htmltmpl "html/template"
	texttmpl "text/template"
)

// Email bodies are small enough to live in code; each template receives a
// ContextData value.
var (
	WelcomeEmailTemplate = &EmailTemplate{
		Text: texttmpl.Must(texttmpl.New("welcome.txt").Parse(welcomeText)),
		HTML: htmltmpl.Must(htmltmpl.New("welcome.gohtml").Parse(welcomeHTML)),
	}

	PasswordResetEmailTemplate = &EmailTemplate{
		Text: texttmpl.Must(texttmpl.New("password-reset.txt").Parse(passwordResetText)),
		HTML: htmltmpl.Must(htmltmpl.New("password-reset.gohtml").Parse(passwordResetHTML)),
	}
)

const (
	welcomeText = `Hi {{ .Data.FirstName }},

Welcome to {{ .AppName }}! Your {{ .Data.Role }} account is ready.
{{ if .Data.Code }}
Your access code: {{ .Data.Code }}
{{ end }}
Sign in at {{ .FrontendBaseURL }}/login to get started.
`

	welcomeHTML = `<p>Hi {{ .Data.FirstName }},</p>
<p>Welcome to {{ .AppName }}! Your {{ .Data.Role }} account is ready.</p>
{{ if .Data.Code }}<p>Your access code: <strong>{{ .Data.Code }}</strong></p>{{ end }}
<p><a href="{{ .FrontendBaseURL }}/login">Sign in</a> to get started.</p>
`

	passwordResetText = `Hi {{ .Data.FirstName }},

You requested a password reset for your {{ .AppName }} account.

Follow this link to choose a new password:
{{ .FrontendBaseURL }}/password-reset-confirm?uid={{ .Data.UID }}&token={{ .Data.Token }}

If you did not request this, you can safely ignore this email.
`

	passwordResetHTML = `<p>Hi {{ .Data.FirstName }},</p>
<p>You requested a password reset for your {{ .AppName }} account.</p>
<p><a href="{{ .FrontendBaseURL }}/password-reset-confirm?uid={{ .Data.UID }}&token={{ .Data.Token }}">Choose a new password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
`
)
