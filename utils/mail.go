package utils

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/Romain-GUILLEMOT/TubeBack/htmlemail"
	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"gopkg.in/gomail.v2"
)

func InitMailer() {
	cfg := config.GetConfig()
	num, err := strconv.Atoi(cfg.SmtpPort)
	if err != nil {
		Fatal("Invalid SMTP port", "err", err)
		return
	}
	d := gomail.NewDialer(cfg.SmtpHost, num, cfg.SmtpUser, cfg.SmtpPass)
	s, err := d.Dial()
	if err != nil {
		Fatal("Mailer unreachable", "err", err)
		return
	}
	_ = s.Close()
	Success("Mailer connection OK")
}

func SendMail(to string, subject string, content string) error {
	cfg := config.GetConfig()
	num, err := strconv.Atoi(cfg.SmtpPort)
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.SmtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", content)
	m.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	m.SetHeader("Message-ID", fmt.Sprintf("<%d@%s>", time.Now().UnixNano(), mailDomain(cfg.SmtpUser)))

	d := gomail.NewDialer(cfg.SmtpHost, num, cfg.SmtpUser, cfg.SmtpPass)

	if err := d.DialAndSend(m); err != nil {
		Error("Failed to send email", "err", err)
		return err
	}

	Info("📧 Email sent", "to", to, "subject", subject)
	return nil
}

// WelcomeMailer sends the post-registration mail.
type WelcomeMailer struct{}

func (WelcomeMailer) Welcome(_ context.Context, user *models.PublicUser) error {
	body, err := htmlemail.Welcome(htmlemail.WelcomeData{
		Fullname: user.Fullname,
		Username: user.Username,
		Avatar:   user.Avatar,
	})
	if err != nil {
		return err
	}
	return SendMail(user.Email, "Welcome aboard 🎉", body)
}

func mailDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i != -1 && i < len(from)-1 {
		return from[i+1:]
	}
	return "localhost"
}
