package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"pollbox/internal/utils"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

var inviteTemplate = template.Must(template.New("invite").Parse(`<p>Hello {{.Name}},</p>
<p>You are invited to take part in the poll <b>{{.Title}}</b>.</p>
{{if .Description}}{{.Description}}{{end}}
<p>Please follow <a target="_blank" href="{{.URL}}">your personal voting link</a>, pick your answers and press "Submit vote".</p>
<p>This link is personal, please do not forward it.</p>`))

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Pollbox <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

// SendVoteInvite delivers one participant's voting link. Delivery is
// best-effort: failures are logged inside sendAsync and never reach the
// caller, so one bad mailbox cannot abort a poll start.
func (s *MailService) SendVoteInvite(email, name, title, description, voteURL string) {
	data := map[string]interface{}{
		"Name":        name,
		"Title":       title,
		"Description": utils.RenderMarkdown(description),
		"URL":         voteURL,
	}
	var buf bytes.Buffer
	if err := inviteTemplate.Execute(&buf, data); err != nil {
		log.Printf("Error rendering invite email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "You are invited to vote: "+title, buf.String())
}
