package session

import (
	"github.com/sirupsen/logrus"
)

// Observer is told about the notable events of a Session. It must not
// block: it is called from the polling loops.
type Observer interface {
	ConnectionOpened(server string)
	ConnectionFailed(server string, err error)
	SessionExcluded(server string, err error)
	SessionsReady(servers []string)
	ServerSkipped(server string, command string)
	ErrorRecorded(server string, err error)
	DisconnectFailed(server string, err error)
}

// LogObserver reports session events through logrus.
type LogObserver struct {
	entry *logrus.Entry
}

func NewLogObserver(fields logrus.Fields) *LogObserver {
	return &LogObserver{entry: logrus.WithFields(fields)}
}

func (o *LogObserver) ConnectionOpened(server string) {
	o.entry.WithField("server", server).Debugln("Connection opened")
}

func (o *LogObserver) ConnectionFailed(server string, err error) {
	o.entry.WithField("server", server).WithError(err).Warnln("Connection has failed")
}

func (o *LogObserver) SessionExcluded(server string, err error) {
	o.entry.WithField("server", server).WithError(err).Errorln("R session could not be started, server excluded")
}

func (o *LogObserver) SessionsReady(servers []string) {
	o.entry.WithField("servers", servers).Debugln("R sessions ready")
}

func (o *LogObserver) ServerSkipped(server string, command string) {
	o.entry.WithFields(logrus.Fields{
		"server":  server,
		"command": command,
	}).Debugln("Nothing to do on server, skipped")
}

func (o *LogObserver) ErrorRecorded(server string, err error) {
	o.entry.WithField("server", server).WithError(err).Errorln("Command failed")
}

func (o *LogObserver) DisconnectFailed(server string, err error) {
	o.entry.WithField("server", server).WithError(err).Debugln("Disconnection error ignored")
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ConnectionOpened(string)        {}
func (NopObserver) ConnectionFailed(string, error) {}
func (NopObserver) SessionExcluded(string, error)  {}
func (NopObserver) SessionsReady([]string)         {}
func (NopObserver) ServerSkipped(string, string)   {}
func (NopObserver) ErrorRecorded(string, error)    {}
func (NopObserver) DisconnectFailed(string, error) {}
