// README: Structured logger setup.
package infra

import "github.com/sirupsen/logrus"

func NewLogger(level string) *logrus.Entry {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return logrus.NewEntry(l).WithField("app", "javai")
}
