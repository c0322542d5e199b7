package listener

import (
	"bytes"
	"io"
)

// lineConn adapts a remote terminal to the game's "\n" line convention.
// Reads turn "\r\n" and a bare "\r" into "\n", even when a pair is split
// across two reads. Writes expand "\n" to "\r\n".
type lineConn struct {
	rw     io.ReadWriter
	lastCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	for {
		n, err := c.rw.Read(p)
		out := p[:0]
		for _, b := range p[:n] {
			switch {
			case b == '\n' && c.lastCR:
				// Second half of a "\r\n" already reported as "\n".
				c.lastCR = false
			case b == '\r':
				c.lastCR = true
				out = append(out, '\n')
			default:
				c.lastCR = false
				out = append(out, b)
			}
		}

		// A read that only held the dropped "\n" must not look like EOF.
		if len(out) > 0 || err != nil || n == 0 {
			return len(out), err
		}
	}
}

func (c *lineConn) Write(p []byte) (int, error) {
	if _, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
