package netsync

import (
	"errors"

	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/messages"
)

// MessageSource is the side of network.Client a Session is fed from.
type MessageSource interface {
	DrainMessages() []messages.Inbound
	State() network.ClientState
	LastError() error
}

// Pump hands every message queued on src to Handle. Once src reports the
// connection gone it drains one last time and closes the session, so nothing
// queued before the drop is lost. It reports whether this call closed the
// session.
func (s *Session) Pump(src MessageSource) bool {
	s.handleAll(src.DrainMessages())
	if s.closed {
		return false
	}

	st := src.State()
	if st != network.StateDisconnected && st != network.StateError {
		return false
	}
	// the read loop may have queued more between the drain and the state check
	s.handleAll(src.DrainMessages())

	if err := src.LastError(); err != nil {
		s.logger.Printf("[session] connection %s: %v", st, err)
	} else {
		s.logger.Printf("[session] connection %s", st)
	}
	s.Close()
	return true
}

func (s *Session) handleAll(msgs []messages.Inbound) {
	for _, msg := range msgs {
		if err := s.Handle(msg); err != nil && !errors.Is(err, ErrClosed) {
			s.logger.Printf("[session] %v", err)
		}
	}
}
