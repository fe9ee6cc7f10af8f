package mail

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strings"
	"time"

	gomail "gopkg.in/mail.v2"
)

const implicitTLSPort = 465

var (
	errNoStartTLS = errors.New("smtp: server does not support STARTTLS")
	errNoAuth     = errors.New("smtp: server does not support AUTH")
)

// deadlineConn pushes the deadline forward on every read and write, so the
// timeout applies to each network operation rather than the whole session.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// session is one authenticated SMTP connection.
type session struct {
	conn   net.Conn
	client *smtp.Client
}

// openSession dials the server, upgrades to TLS and logs in. On error the
// connection is already closed.
func (m *Mailer) openSession() (*session, error) {
	cfg := m.cfg
	timeout := cfg.GetTimeout()

	raw, err := (&net.Dialer{Timeout: timeout}).Dial("tcp", cfg.Address())
	if err != nil {
		return nil, err
	}
	var conn net.Conn = &deadlineConn{Conn: raw, timeout: timeout}
	if cfg.GetPort() == implicitTLSPort {
		conn = tls.Client(conn, m.clientTLS())
	}

	if m.tlsConfig == nil && cfg.InsecureSkipVerify() {
		m.log.Warnf("TLS certificate verification is disabled for %s", cfg.GetHost())
	}

	s := &session{conn: conn}
	if err := s.handshake(m); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) handshake(m *Mailer) error {
	cfg := m.cfg

	client, err := smtp.NewClient(s.conn, cfg.GetHost())
	if err != nil {
		return err
	}
	s.client = client

	if err := client.Hello("localhost"); err != nil {
		return err
	}

	if _, implicit := s.conn.(*tls.Conn); !implicit {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return errNoStartTLS
		}
		if err := client.StartTLS(m.clientTLS()); err != nil {
			return err
		}
	}

	ok, mechanisms := client.Extension("AUTH")
	if !ok {
		return errNoAuth
	}
	return client.Auth(chooseAuth(mechanisms, cfg.GetUser(), cfg.GetPassword(), cfg.GetHost()))
}

// send hands msg to the server through gomail's envelope handling.
func (s *session) send(msg *gomail.Message) error {
	return gomail.Send(gomail.SendFunc(func(from string, to []string, w io.WriterTo) error {
		if err := s.client.Mail(from); err != nil {
			return err
		}
		for _, addr := range to {
			if err := s.client.Rcpt(addr); err != nil {
				return err
			}
		}

		data, err := s.client.Data()
		if err != nil {
			return err
		}
		if _, err := w.WriteTo(data); err != nil {
			data.Close()
			return err
		}
		return data.Close()
	}), msg)
}

func (s *session) quit() error {
	return s.client.Quit()
}

func (s *session) close() {
	s.conn.Close()
}

func (m *Mailer) clientTLS() *tls.Config {
	if m.tlsConfig != nil {
		return m.tlsConfig
	}
	return &tls.Config{
		ServerName:         m.cfg.GetHost(),
		InsecureSkipVerify: m.cfg.InsecureSkipVerify(),
	}
}

// chooseAuth prefers PLAIN and falls back to LOGIN for servers that only
// offer the latter.
func chooseAuth(mechanisms, user, pass, host string) smtp.Auth {
	offered := strings.Fields(strings.ToUpper(mechanisms))
	plain, login := false, false
	for _, mech := range offered {
		switch mech {
		case "PLAIN":
			plain = true
		case "LOGIN":
			login = true
		}
	}
	if login && !plain {
		return &loginAuth{username: user, password: pass, host: host}
	}
	return smtp.PlainAuth("", user, pass, host)
}

type loginAuth struct {
	username string
	password string
	host     string
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("smtp: LOGIN requires an encrypted connection")
	}
	if server.Name != a.host {
		return "", nil, fmt.Errorf("smtp: unexpected server name %s", server.Name)
	}
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}
	switch strings.ToLower(string(fromServer)) {
	case "username:", "user:":
		return []byte(a.username), nil
	case "password:", "pass:":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("smtp: unexpected login challenge %q", fromServer)
	}
}
