package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter sits between the session flow and a raw line transport.
// Writes expand \n to \r\n for clients that expect CRLF line endings.
// Reads fold \r\n and bare \r down to \n so the flow only ever parses \n.
type crlfReadWriter struct {
	rw io.ReadWriter
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n > 0 {
		// Telnet clients send \r\n, ssh clients in raw mode send \r.
		data := bytes.ReplaceAll(p[:n], []byte("\r\n"), []byte("\n"))
		data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
		n = copy(p, data)
	}
	return n, err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	expanded := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	if _, err := c.rw.Write(expanded); err != nil {
		return 0, err
	}
	// Report the caller's length, not the expanded one.
	return len(p), nil
}
