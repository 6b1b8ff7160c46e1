package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"studyTrackerAPI/config"

	"github.com/sirupsen/logrus"
)

type EmailProvider interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type EmailJob struct {
	To      string
	Subject string
	Body    string
}

// EmailDispatcher sends queued emails from a fixed pool of workers.
type EmailDispatcher struct {
	provider EmailProvider
	baseURL  string
	workers  int
	jobQueue chan *EmailJob
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewEmailDispatcher(provider EmailProvider, baseURL string) *EmailDispatcher {
	d := &EmailDispatcher{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		workers:  3,
		jobQueue: make(chan *EmailJob, 100),
		stopChan: make(chan struct{}),
	}
	d.startWorkers()
	return d
}

func (d *EmailDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *EmailDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *EmailDispatcher) processJob(job *EmailJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := config.Logger.WithFields(logrus.Fields{"to": job.To, "subject": job.Subject})
	if err := d.provider.SendEmail(ctx, job.To, job.Subject, job.Body); err != nil {
		emailsSent.WithLabelValues("failed").Inc()
		log.WithError(err).Error("Failed to send email")
		return
	}
	emailsSent.WithLabelValues("sent").Inc()
	log.Info("Email sent")
}

// Dispatch queues an email, giving up after five seconds when the queue is full.
func (d *EmailDispatcher) Dispatch(job *EmailJob) bool {
	select {
	case d.jobQueue <- job:
		return true
	case <-time.After(5 * time.Second):
		emailsSent.WithLabelValues("dropped").Inc()
		config.Logger.WithField("to", job.To).Warn("Failed to queue email: queue full")
		return false
	}
}

var verificationTemplate = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>您好，{{.Username}}！</h2>
  <p>感谢您注册学习追踪。请点击下面的链接验证您的邮箱地址：</p>
  <p><a href="{{.Link}}" style="background: #4f46e5; color: #fff; padding: 10px 20px; border-radius: 6px; text-decoration: none;">验证邮箱</a></p>
  <p>如果按钮无法点击，请复制以下链接到浏览器中打开：</p>
  <p>{{.Link}}</p>
  <p>如果您没有注册账号，请忽略此邮件。</p>
</body>
</html>`))

func (d *EmailDispatcher) VerificationLink(token string) string {
	return d.baseURL + "/verify-email?token=" + url.QueryEscape(token)
}

func (d *EmailDispatcher) SendVerification(to, username, token string) {
	var body bytes.Buffer
	err := verificationTemplate.Execute(&body, struct {
		Username string
		Link     string
	}{username, d.VerificationLink(token)})
	if err != nil {
		config.Logger.WithError(err).Error("Failed to render verification email")
		return
	}

	d.Dispatch(&EmailJob{To: to, Subject: "请验证您的邮箱地址", Body: body.String()})
}

func (d *EmailDispatcher) Stop() {
	config.Logger.Info("Stopping email dispatcher...")
	close(d.stopChan)
	d.wg.Wait()
	config.Logger.Info("Email dispatcher stopped")
}

// SMTPProvider sends mail through an authenticated SMTP server. Port 465 uses
// implicit TLS, other ports upgrade with STARTTLS.
type SMTPProvider struct {
	cfg config.MailConfig
}

func NewSMTPProvider(cfg config.MailConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) message(to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	from := fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", p.cfg.FromName), p.cfg.From)
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}

func (p *SMTPProvider) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var conn net.Conn
	var err error
	if p.cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: p.cfg.Host}}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to mail server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, p.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer client.Close()

	if p.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: p.cfg.Host}); err != nil {
				return fmt.Errorf("failed to start tls: %w", err)
			}
		}
	}

	if err := client.Auth(smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(p.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(p.message(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return client.Quit()
}

// LogEmailProvider stands in when no mail server is configured.
type LogEmailProvider struct{}

func (LogEmailProvider) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	config.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Warn("Mail server not configured, email not sent")
	return nil
}
