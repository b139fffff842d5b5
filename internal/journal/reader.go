// Package journal reads Elite Dangerous journal files and replays them
// through a tracker.
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"incometracker/internal/core"
)

const maxLineSize = 1 << 20

// ErrMalformedLine is returned for a line that is not a JSON object with an
// event name.
var ErrMalformedLine = errors.New("malformed journal line")

// Reader yields journal entries one line at a time. Numbers are decoded as
// json.Number so credit values keep their exact digits.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: sc}
}

// Line is the number of the line last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next entry. Blank lines are skipped. A line that cannot be
// decoded yields an error wrapping ErrMalformedLine; reading may continue.
// io.EOF marks the end of input.
func (r *Reader) Next() (core.Event, error) {
	for r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		return decodeLine(raw, r.line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return nil, io.EOF
}

func decodeLine(raw []byte, line int) (core.Event, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var ev core.Event
	if err := dec.Decode(&ev); err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, line, err)
	}
	if _, err := ev.Name(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, line, err)
	}
	return ev, nil
}
