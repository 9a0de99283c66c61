package competitor

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMessageStreamReadLineStripsNewline(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go client.Write([]byte("{\"username\":\"a\"}\n"))

	s := NewMessageStream(server, zerolog.Nop())
	line, err := s.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine returned error: %v", err)
	}
	if string(line) != `{"username":"a"}` {
		t.Fatalf("got %q, want the message with no trailing newline", line)
	}
}

func TestMessageStreamReadLineDiscardsOversizeLine(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	oversize := bytes.Repeat([]byte("x"), maxLineBytes*2)
	go func() {
		client.Write(oversize)
		client.Write([]byte("\n{\"username\":\"ok\"}\n"))
	}()

	s := NewMessageStream(server, zerolog.Nop())
	line, err := s.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine returned error: %v", err)
	}
	if string(line) != `{"username":"ok"}` {
		t.Fatalf("got %q, want the oversize line discarded and the next line returned", line)
	}
}

func TestMessageStreamWriteEnvelopeRoundTrips(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	s := NewMessageStream(server, zerolog.Nop())
	done := make(chan error, 1)
	go func() { done <- s.WriteEnvelope(outboundEnvelope{Error: "bad code"}) }()

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("client.Read returned error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("WriteEnvelope returned error: %v", err)
	}

	want := "{\"error\":\"bad code\"}\n"
	if string(buf[:n]) != want {
		t.Fatalf("got %q, want %q", buf[:n], want)
	}
}
