// Package responseformat encodes machine-readable command output as JSON or
// MessagePack.
package responseformat

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is an output encoding.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

// ParseFormat resolves a --format value. Empty selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", JSON:
		return JSON, nil
	case MsgPack:
		return MsgPack, nil
	}
	return "", fmt.Errorf("unknown output format %q (want %q or %q)", name, JSON, MsgPack)
}

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct {
	format Format
}

// NewFormatter creates a new response formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{format: format}
}

// Write encodes data to w. JSON is indented for terminal use.
func (f *Formatter) Write(w io.Writer, data any) error {
	if f.format == MsgPack {
		return f.writeMsgPack(w, data)
	}
	return f.writeJSON(w, data)
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
