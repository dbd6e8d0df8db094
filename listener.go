package fakeinv

import (
	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/session"
)

// Listener wraps a server.Listener so every accepted connection is a Conn.
type Listener struct {
	server.Listener
	manager *Manager
}

// Compile-time check that Listener implements server.Listener.
var _ server.Listener = Listener{}

// Accept accepts the next connection and wraps it.
func (l Listener) Accept() (session.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return l.manager.wrapConn(conn), nil
}

// Disconnect unwraps conn before passing it on, since listeners only
// recognise their own connection types.
func (l Listener) Disconnect(conn session.Conn, reason string) error {
	if c, ok := conn.(*Conn); ok {
		l.manager.dropConn(c)
		conn = c.Conn
	}
	return l.Listener.Disconnect(conn, reason)
}

// WrapListeners wraps every listener factory in conf so connections pass
// through m. Call it before conf.New().
//
// Usage:
//
//	conf, _ := userConf.Config(log)
//	fakeinv.WrapListeners(&conf, m)
//	srv := conf.New()
func WrapListeners(conf *server.Config, m *Manager) {
	for i, newListener := range conf.Listeners {
		conf.Listeners[i] = func(c server.Config) (server.Listener, error) {
			l, err := newListener(c)
			if err != nil {
				return nil, err
			}
			return Listener{Listener: l, manager: m}, nil
		}
	}
}
