package mail

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

const (
	senderName       = "Borgir Archive"
	temporarySubject = "Account Password"
	defaultTimeout   = 15 * time.Second
)

var temporaryPasswordTmpl = template.Must(template.New("temporary").Parse(
	`<p>Hello, {{.Username}}</p>
<p>Your temporary password is: <strong>{{.Password}}</strong></p>
<p>Please change it after logging in.</p>`))

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

type sendFunc func(ctx context.Context, msg *gomail.Msg) error

// Notifier delivers temporary passwords over SMTP.
type Notifier struct {
	cfg  Config
	send sendFunc
	log  zerolog.Logger
}

func NewNotifier(cfg Config, log zerolog.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	n := &Notifier{cfg: cfg, log: log}
	n.send = n.dialAndSend
	return n
}

// SendTemporaryPassword mails password to the new account holder. The
// password never appears in logs.
func (n *Notifier) SendTemporaryPassword(ctx context.Context, to, username, password string) error {
	msg, err := n.buildMessage(to, username, password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	if err := n.send(ctx, msg); err != nil {
		n.log.Error().Err(err).Str("to", to).Msg("temporary password email failed")
		return fmt.Errorf("send temporary password: %w", err)
	}
	n.log.Info().Str("to", to).Str("username", username).Msg("temporary password email sent")
	return nil
}

func (n *Notifier) buildMessage(to, username, password string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(senderName, n.cfg.From); err != nil {
		return nil, fmt.Errorf("mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mail recipient: %w", err)
	}
	msg.Subject(temporarySubject)

	data := struct{ Username, Password string }{username, password}
	if err := msg.SetBodyHTMLTemplate(temporaryPasswordTmpl, data); err != nil {
		return nil, fmt.Errorf("mail body: %w", err)
	}
	return msg, nil
}

func (n *Notifier) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	client, err := gomail.NewClient(n.cfg.Host,
		gomail.WithPort(n.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.Username),
		gomail.WithPassword(n.cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(n.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
