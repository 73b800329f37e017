// Package xmpp sends the analysis summary to a chat contact. Entirely
// optional: without credentials it degrades to a log line.
package xmpp

import (
	"crypto/tls"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host     string
	Jid      string
	Password string
	To       string
}

type Notifier struct {
	Config Config
}

func (n Notifier) Enabled() bool {
	return len(n.Config.Jid) > 0 && len(n.Config.Password) > 0 && len(n.Config.To) > 0
}

func serverName(jid string) string {
	return strings.Split(jid, "@")[1]
}

// Notify delivers one chat message. A missing configuration is not an
// error, the message is just dropped.
func (n Notifier) Notify(message string) error {

	if !n.Enabled() {
		log.Debug("xmpp not configured, notification dropped")
		return nil
	}

	host := n.Config.Host
	if len(host) == 0 {
		host = serverName(n.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:     host,
		User:     n.Config.Jid,
		Password: n.Config.Password,
		NoTLS:    true,
		StartTLS: true,
		Session:  false,
		Status:   "xa",
	}

	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("Error creating xmpp client")
		return err
	}

	if _, err := talk.Send(xmpp.Chat{Remote: n.Config.To, Type: "chat", Text: message}); err != nil {
		log.WithError(err).Error("Error sending xmpp message")
		return err
	}

	return nil
}
