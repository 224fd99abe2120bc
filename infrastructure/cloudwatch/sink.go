package cloudwatch

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pair-programming-backend/shared/common/logger"
)

const (
	dialTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
)

type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(doc []byte) error {
	_, err := s.w.Write(doc)
	return err
}

func (s *WriterSink) Close() error {
	return nil
}

// AgentSink streams documents to the CloudWatch agent, redialling with backoff when
// the connection drops. It is not safe for concurrent use; the emitter's writer
// goroutine is its only caller.
type AgentSink struct {
	network string
	addr    string
	conn    net.Conn
	retry   func() backoff.BackOff
}

// NewAgentSink parses endpoints such as tcp://127.0.0.1:25888 or udp://127.0.0.1:25888.
func NewAgentSink(endpoint string) (*AgentSink, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid emf agent endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "tcp" && u.Scheme != "udp" {
		return nil, fmt.Errorf("invalid emf agent endpoint %q: scheme must be tcp or udp", endpoint)
	}
	if u.Port() == "" {
		return nil, fmt.Errorf("invalid emf agent endpoint %q: missing port", endpoint)
	}

	return &AgentSink{
		network: u.Scheme,
		addr:    u.Host,
		retry: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 50 * time.Millisecond
			policy.MaxElapsedTime = time.Second
			return policy
		},
	}, nil
}

func (s *AgentSink) Write(doc []byte) error {
	op := func() error {
		if s.conn == nil {
			conn, err := net.DialTimeout(s.network, s.addr, dialTimeout)
			if err != nil {
				return err
			}
			s.conn = conn
		}

		_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := s.conn.Write(doc); err != nil {
			_ = s.conn.Close()
			s.conn = nil
			return err
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Debug("EMF agent write failed, retrying", logger.WithError(err), logger.WithDuration("wait", wait))
	}
	return backoff.RetryNotify(op, s.retry(), notify)
}

func (s *AgentSink) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
