package feedback

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

var clipboardWrite = clipboard.WriteAll

// Clipboard places text on the system clipboard. When the native clipboard
// is unavailable (headless, SSH) it falls back to an OSC 52 escape sequence
// written to Fallback, which most terminals forward to the local clipboard.
type Clipboard struct {
	Fallback io.Writer
}

// Copy writes text to the clipboard.
func (c Clipboard) Copy(text string) error {
	err := clipboardWrite(text)
	if err == nil {
		return nil
	}
	if c.Fallback == nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	if _, ferr := io.WriteString(c.Fallback, seq); ferr != nil {
		return fmt.Errorf("clipboard: %w", errors.Join(err, ferr))
	}
	return nil
}
