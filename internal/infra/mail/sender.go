package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var purchaseTmpl = template.Must(template.ParseFS(templatesFS, "templates/purchase.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendPurchaseConfirmation(to, name, productName string) error {
	if productName == "" {
		productName = "Dieta do Quiz"
	}

	body, err := RenderPurchaseEmail(PurchaseEmailData{Name: name, ProductName: productName})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Pagamento confirmado! Seu plano está a caminho 🚀")
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func RenderPurchaseEmail(data PurchaseEmailData) (string, error) {
	var body bytes.Buffer
	if err := purchaseTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
