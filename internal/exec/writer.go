package exec

import (
	"bytes"
	"io"
)

// PrefixWriter adds a prefix to each line of output.
// Used in verbose mode to indent the raw output of package managers.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{
		prefix: prefix,
		writer: writer,
	}
}

// Write emits every complete line with the prefix and buffers the rest
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		idx := bytes.IndexByte(p.buffer, '\n')
		if idx < 0 {
			break
		}
		line := p.buffer[:idx+1]
		if _, err := p.writer.Write(append([]byte(p.prefix), line...)); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[idx+1:]
	}

	return len(data), nil
}

// Flush writes any buffered partial line
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := p.writer.Write(append([]byte(p.prefix), append(p.buffer, '\n')...))
	p.buffer = p.buffer[:0]
	return err
}
