package notify

import (
	"fmt"
	"net/smtp"
)

// EmailDispatcher sends status notifications over plain SMTP with PLAIN auth.
type EmailDispatcher struct {
	Host     string
	Port     string
	From     string
	Password string
}

func NewEmailDispatcher(host, port, from, password string) *EmailDispatcher {
	return &EmailDispatcher{Host: host, Port: port, From: from, Password: password}
}

func (e *EmailDispatcher) Send(destination string, update StatusUpdate) Result {
	subject := fmt.Sprintf("Subject: Pembaruan Status Pengajuan %s\r\n", update.TrackingCode)
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	body := "<html><body><p>" + RenderMessage(update) + "</p></body></html>"
	msg := []byte(subject + mime + body)

	res := Result{Channel: "EMAIL", Provider: "smtp"}
	auth := smtp.PlainAuth("", e.From, e.Password, e.Host)
	if err := smtp.SendMail(e.Host+":"+e.Port, auth, e.From, []string{destination}, msg); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.Detail = "delivered to " + destination
	return res
}
