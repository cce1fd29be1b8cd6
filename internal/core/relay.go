package core

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"
)

// lineSink serializes whole-line writes to the supervisor's output so that
// the stdout relay, a merged stderr relay and the notices never split each
// other's lines.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func newLineSink(w io.Writer) *lineSink {
	return &lineSink{w: w}
}

// WriteLine writes s followed by a newline in a single Write call.
func (s *lineSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// relayLines reads r line by line and calls emit for each line with trailing
// whitespace removed. Blank lines are emitted as empty strings. A final line
// without a newline is emitted too. Lines of any length are supported.
//
// relayLines returns nil at end of stream and when r was closed underneath
// it (the supervisor closes a child's streams after the drain timeout).
// Any other read error, or the first emit error, is returned.
func relayLines(r io.Reader, emit func(string) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if emitErr := emit(strings.TrimRightFunc(line, unicode.IsSpace)); emitErr != nil {
				return emitErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || isClosedStream(err) {
				return nil
			}
			return err
		}
	}
}

// isClosedStream reports whether err means the read end was closed locally.
func isClosedStream(err error) bool {
	return errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
