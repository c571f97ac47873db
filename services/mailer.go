package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer 邮件发送接口，提醒任务只依赖该接口
type Mailer interface {
	Send(toEmail, subject, plainText, htmlContent string) error
}

// SendgridMailer 基于Sendgrid的邮件发送实现
type SendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendgridMailer(apiKey, fromEmail, fromName string) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendgridMailer) Send(toEmail, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", toEmail), plainText, htmlContent)
	resp, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("邮件发送失败: 状态码 %d", resp.StatusCode)
	}
	return nil
}
