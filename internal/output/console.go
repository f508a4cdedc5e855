package output

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Console writes operator-facing progress lines, rendering text through a
// best-effort re-encode for the active console's character set. Item titles
// can contain characters the console codepage cannot represent; those are
// substituted rather than failing the run.
type Console struct {
	w   io.Writer
	enc encoding.Encoding // nil means the console handles the text as-is
}

// NewConsole returns a Console for the active console's codepage.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, enc: encodingForCodepage(consoleCodepage())}
}

// NewPlainConsole returns a Console that performs no re-encoding. Used in
// tests and when output is piped.
func NewPlainConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Printf formats and writes a line, re-encoding it for the console.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprint(c.w, c.SafeText(fmt.Sprintf(format, args...)))
}

// SafeText returns s round-tripped through the console encoding with
// unencodable characters substituted. On any conversion error the original
// string is returned unchanged.
func (c *Console) SafeText(s string) string {
	if c.enc == nil {
		return s
	}
	encoded, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return s
	}
	decoded, err := c.enc.NewDecoder().Bytes(encoded)
	if err != nil {
		return s
	}
	return string(decoded)
}

// encodingForCodepage maps a Windows console codepage to its encoding.
// Unknown codepages (including 65001, UTF-8) need no substitution pass.
func encodingForCodepage(cp uint32) encoding.Encoding {
	switch cp {
	case 936:
		return simplifiedchinese.GBK
	case 950:
		return traditionalchinese.Big5
	case 932:
		return japanese.ShiftJIS
	case 949:
		return korean.EUCKR
	case 1252:
		return charmap.Windows1252
	default:
		return nil
	}
}
