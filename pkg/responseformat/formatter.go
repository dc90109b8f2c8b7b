package responseformat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Supported output formats
const (
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// Formatter handles encoding results in JSON or MessagePack format
type Formatter struct {
	format string
}

// NewFormatter creates a formatter for the named format. An empty name selects JSON.
func NewFormatter(format string) (*Formatter, error) {
	switch format {
	case "", FormatJSON:
		return &Formatter{format: FormatJSON}, nil
	case FormatMsgPack:
		return &Formatter{format: FormatMsgPack}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use %q or %q", format, FormatJSON, FormatMsgPack)
	}
}

// Format returns the selected format name
func (f *Formatter) Format() string {
	return f.format
}

// Write encodes data to w
func (f *Formatter) Write(w io.Writer, data any) error {
	if f.format == FormatMsgPack {
		return f.writeMsgPack(w, data)
	}
	return f.writeJSON(w, data)
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
