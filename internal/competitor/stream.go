package competitor

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
)

// maxLineBytes bounds a single wire message (§4.4): oversize lines are
// discarded and logged, the connection preserved.
const maxLineBytes = 1024

const writeTimeout = 10 * time.Second

// MessageStream frames newline-delimited JSON messages over a TCP
// connection, bounding each line to maxLineBytes the way
// original_source/tournament/src/connection.rs's Connection resets its
// fixed 1024-byte buffer when no newline is found in time.
type MessageStream struct {
	conn   net.Conn
	reader *bufio.Reader
	log    zerolog.Logger
}

// NewMessageStream wraps conn. The reader's internal buffer is sized
// exactly to maxLineBytes so bufio reports ErrBufferFull at the same
// boundary the wire protocol enforces.
func NewMessageStream(conn net.Conn, log zerolog.Logger) *MessageStream {
	return &MessageStream{conn: conn, reader: bufio.NewReaderSize(conn, maxLineBytes), log: log}
}

// ReadLine returns the next newline-terminated message with the
// trailing newline (and any trailing \r) stripped. Lines exceeding
// maxLineBytes without completing are discarded and logged; the
// stream resynchronizes at the next newline found, preserving the
// connection per §7.
func (s *MessageStream) ReadLine() ([]byte, error) {
	for {
		raw, rerr := s.reader.ReadSlice('\n')
		if rerr == bufio.ErrBufferFull {
			s.log.Warn().Msg("oversize line discarded")
			for rerr == bufio.ErrBufferFull {
				raw, rerr = s.reader.ReadSlice('\n')
			}
			if rerr != nil {
				return nil, rerr
			}
			continue // raw here is just the tail of the discarded line
		}
		if rerr != nil {
			return nil, rerr
		}
		line := bytes.TrimRight(raw[:len(raw)-1], "\r")
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}
}

// WriteEnvelope marshals env as JSON, appends a newline, and writes it
// with a bounded deadline. Every write error closes the socket
// (§7): the caller is expected to tear the connection down on error.
func (s *MessageStream) WriteEnvelope(env outboundEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("competitor: marshaling outbound envelope: %w", err)
	}
	data = append(data, '\n')
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err = s.conn.Write(data)
	return err
}

// Close closes the underlying connection.
func (s *MessageStream) Close() error {
	return s.conn.Close()
}
