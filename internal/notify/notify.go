package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

type Kind string

const (
	KindOTP           Kind = "otp"
	KindWelcome       Kind = "welcome"
	KindPasswordReset Kind = "password_reset"
	KindContactReply  Kind = "contact_reply"
)

// Notification is a request to email someone. Data feeds the kind's template.
type Notification struct {
	Kind   Kind
	To     string
	ToName string
	Data   map[string]string
}

// Email is a rendered message ready for a Sender.
type Email struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

// Enqueuer accepts notifications without blocking the caller.
type Enqueuer interface {
	Enqueue(n Notification) bool
}

type messageTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[Kind]messageTemplate{
	KindOTP: {
		subject: "Verify Your Email - OTP Code",
		body: template.Must(template.New("otp").Parse(`<h2>Hello {{.Name}},</h2>
<p>Use the code below to verify your email address:</p>
<p style="font-size:32px;font-weight:bold;letter-spacing:6px">{{.Code}}</p>
<p>The code expires in {{.Minutes}} minutes. If you did not create an account, ignore this email.</p>`)),
	},
	KindWelcome: {
		subject: "Welcome to Our Platform!",
		body: template.Must(template.New("welcome").Parse(`<h2>Welcome, {{.Name}}!</h2>
<p>Your email has been verified and your account is ready to use.</p>`)),
	},
	KindPasswordReset: {
		subject: "Password Reset Code",
		body: template.Must(template.New("reset").Parse(`<h2>Hello {{.Name}},</h2>
<p>We received a request to reset your password. Your code is:</p>
<p style="font-size:32px;font-weight:bold;letter-spacing:6px">{{.Code}}</p>
<p>The code expires in {{.Minutes}} minutes. If you did not ask for this, you can ignore this email.</p>`)),
	},
	KindContactReply: {
		subject: "Re: Your message",
		body: template.Must(template.New("reply").Parse(`<h2>Hello {{.Name}},</h2>
<p>{{.Reply}}</p>
<hr>
<p style="color:#777">Your original message:</p>
<blockquote style="color:#777">{{.Message}}</blockquote>`)),
	},
}

// Render builds the email for n.
func Render(n Notification) (Email, error) {
	tmpl, ok := templates[n.Kind]
	if !ok {
		return Email{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	data := map[string]string{"Name": n.ToName}
	for k, v := range n.Data {
		data[k] = v
	}
	if data["Name"] == "" {
		data["Name"] = "there"
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, data); err != nil {
		return Email{}, fmt.Errorf("render %s: %w", n.Kind, err)
	}

	subject := tmpl.subject
	if n.Kind == KindContactReply && data["Subject"] != "" {
		subject = "Re: " + data["Subject"]
	}
	return Email{To: n.To, ToName: n.ToName, Subject: subject, HTML: body.String()}, nil
}
