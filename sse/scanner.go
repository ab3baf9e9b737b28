package sse

import "io"

// Scanner drives a [Reassembler] from an io.Reader, yielding one "data:"
// payload per call to Next. It is the read half of a streaming response
// body; closing the body remains the caller's responsibility.
type Scanner struct {
	r       io.Reader
	re      Reassembler
	queue   []string
	buf     []byte
	readErr error
	flushed bool
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r, buf: make([]byte, 4096)}
}

// Next returns the next payload in arrival order. It returns io.EOF after
// the source is exhausted and the trailing fragment (if any) has been
// flushed. Any other read error is returned as-is.
func (s *Scanner) Next() (string, error) {
	for {
		if len(s.queue) > 0 {
			p := s.queue[0]
			s.queue = s.queue[1:]
			return p, nil
		}

		if s.readErr != nil {
			if s.readErr != io.EOF {
				return "", s.readErr
			}
			if !s.flushed {
				s.flushed = true
				if p, ok := s.re.Flush(); ok {
					return p, nil
				}
			}
			return "", io.EOF
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			s.queue = s.re.Push(s.buf[:n])
		}
		if err != nil {
			// Deliver any payloads completed by this final chunk before
			// surfacing the error on the following call.
			s.readErr = err
		}
	}
}
