// Package capture reads and writes recorded server traffic as JSON lines,
// one raw server message per line. Blank lines and lines starting with '#'
// are ignored.
package capture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const maxLine = 4 << 20

// ReadAll returns every message in r, in order.
func ReadAll(r io.Reader) ([]json.RawMessage, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxLine)

	var out []json.RawMessage
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		if !json.Valid(b) {
			return nil, fmt.Errorf("capture line %d: invalid json", line)
		}
		out = append(out, append(json.RawMessage(nil), b...))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	return out, nil
}

// Recorder appends messages to w. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Record writes raw as one line. Embedded newlines are compacted away.
func (r *Recorder) Record(raw []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	buf.WriteByte('\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(buf.Bytes()); err != nil {
		return err
	}
	r.n++
	return nil
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
