package htmlemail

import (
	"bytes"
	"html/template"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
		<!DOCTYPE html>
		<html>
			<body style="font-family: sans-serif; background-color: #00C896; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background: white; padding: 20px; border-radius: 8px;">
					{{if .Avatar}}<img src="{{.Avatar}}" width="96" height="96" alt="" style="display: block; margin: 0 auto;">{{end}}
					<h2 style="color: #10b981;">👋 Welcome, {{.Fullname}}!</h2>
					<p>Your account <strong>@{{.Username}}</strong> is ready.</p>
					<p style="color: #777;">If you did not create this account, just ignore this email.</p>
				</div>
			</body>
		</html>
	`))

type WelcomeData struct {
	Fullname string
	Username string
	Avatar   string
}

func Welcome(data WelcomeData) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
