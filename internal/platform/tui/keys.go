package tui

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"
)

// escapeTimeout is how long a trailing ESC waits for the rest of its
// sequence before it counts as the Esc key.
const escapeTimeout = 50 * time.Millisecond

// ReaderKeySource decodes key presses from a raw byte stream such as stdin
// in raw mode or an SSH channel. A background reader feeds chunks through a
// channel so PollKey can wait with a timeout.
type ReaderKeySource struct {
	chunks  chan []byte
	readErr error // set before chunks is closed

	done      chan struct{}
	closeOnce sync.Once
	exited    chan struct{}

	pending []string
	closed  bool
}

// NewReaderKeySource starts reading r. The reader goroutine ends when r
// returns an error (io.EOF included) or when Close is called and the next
// read returns.
func NewReaderKeySource(r io.Reader) *ReaderKeySource {
	s := &ReaderKeySource{
		chunks: make(chan []byte, 16),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.read(r)
	return s
}

func (s *ReaderKeySource) read(r io.Reader) {
	defer close(s.exited)

	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.readErr = err
			close(s.chunks)
			return
		}
	}
}

// Close stops delivering keys. A reader blocked on a full channel exits
// at once; one blocked in Read exits when that read returns.
func (s *ReaderKeySource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// PollKey returns the next key, waiting at most timeout. After the input
// ends every call waits out the timeout and reports the read error.
func (s *ReaderKeySource) PollKey(timeout time.Duration) (string, bool, error) {
	if key, ok := s.next(); ok {
		return key, true, nil
	}

	if s.closed {
		time.Sleep(timeout)
		return "", false, s.closedErr()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			s.closed = true
			return "", false, s.closedErr()
		}
		s.pending = append(s.pending, DecodeKeys(s.completeEscape(chunk))...)
		key, ok := s.next()
		return key, ok, nil
	case <-timer.C:
		return "", false, nil
	}
}

// completeEscape appends follow-up chunks while data ends inside an escape
// sequence, for at most escapeTimeout. Terminals and SSH links can split
// an arrow key across reads.
func (s *ReaderKeySource) completeEscape(data []byte) []byte {
	if !unfinishedEscape(data) {
		return data
	}

	timer := time.NewTimer(escapeTimeout)
	defer timer.Stop()

	for unfinishedEscape(data) {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				s.closed = true
				return data
			}
			data = append(data, chunk...)
		case <-timer.C:
			return data
		}
	}
	return data
}

// unfinishedEscape reports whether b ends with a lone ESC or inside a
// CSI/SS3 sequence that has no final byte yet.
func unfinishedEscape(b []byte) bool {
	i := bytes.LastIndexByte(b, 0x1b)
	if i < 0 {
		return false
	}
	if i == len(b)-1 {
		return true
	}
	switch b[i+1] {
	case 'O':
		return i+2 >= len(b)
	case '[':
		for _, c := range b[i+2:] {
			if c >= 0x40 && c <= 0x7e {
				return false
			}
		}
		return true
	}
	return false
}

func (s *ReaderKeySource) next() (string, bool) {
	if len(s.pending) == 0 {
		return "", false
	}
	key := s.pending[0]
	s.pending = s.pending[1:]
	return key, true
}

func (s *ReaderKeySource) closedErr() error {
	return fmt.Errorf("tui: key input closed: %w", s.readErr)
}

// csiNames maps the final byte of CSI/SS3 sequences to key names.
var csiNames = map[byte]string{
	'A': "up",
	'B': "down",
	'C': "right",
	'D': "left",
	'H': "home",
	'F': "end",
	'P': "f1",
	'Q': "f2",
	'R': "f3",
	'S': "f4",
}

// DecodeKeys splits raw terminal input into key names: printable runes as
// themselves, "esc" for a lone escape, "ctrl+<x>" for control bytes and
// named keys for escape sequences. An escape sequence never decodes to
// "esc", so arrow keys cannot be mistaken for quit.
func DecodeKeys(b []byte) []string {
	var keys []string

	for i := 0; i < len(b); {
		c := b[i]

		switch {
		case c == 0x1b:
			if i+1 >= len(b) {
				keys = append(keys, "esc")
				i++
				continue
			}
			if b[i+1] == '[' || b[i+1] == 'O' {
				j := i + 2
				for j < len(b) && (b[j] < 0x40 || b[j] > 0x7e) {
					j++
				}
				name := "unknown"
				if j < len(b) {
					if n, ok := csiNames[b[j]]; ok {
						name = n
					}
				}
				keys = append(keys, name)
				i = j + 1
				continue
			}
			if b[i+1] == 0x1b {
				keys = append(keys, "esc")
				i++
				continue
			}
			r, size := utf8.DecodeRune(b[i+1:])
			keys = append(keys, "alt+"+string(r))
			i += 1 + size

		case c == '\r' || c == '\n':
			keys = append(keys, "enter")
			i++
		case c == '\t':
			keys = append(keys, "tab")
			i++
		case c == 0x7f:
			keys = append(keys, "backspace")
			i++
		case c == 0:
			keys = append(keys, "ctrl+@")
			i++
		case c < 0x20:
			keys = append(keys, "ctrl+"+string(rune('a'+c-1)))
			i++

		default:
			r, size := utf8.DecodeRune(b[i:])
			keys = append(keys, string(r))
			i += size
		}
	}

	return keys
}
