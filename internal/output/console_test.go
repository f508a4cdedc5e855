package output

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestConsole_Printf(t *testing.T) {
	var buf bytes.Buffer
	con := NewPlainConsole(&buf)
	con.Printf("[%d] Processing '%s'\n", 3, "A Book")
	if got := buf.String(); got != "[3] Processing 'A Book'\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSafeText_PassthroughWithoutEncoding(t *testing.T) {
	con := NewPlainConsole(&bytes.Buffer{})
	s := "三体 — Remembrance ☂"
	if got := con.SafeText(s); got != s {
		t.Fatalf("plain console must not alter text: got %q", got)
	}
}

func TestSafeText_SubstitutesUnencodable(t *testing.T) {
	con := &Console{w: &bytes.Buffer{}, enc: simplifiedchinese.GBK}

	// Chinese text survives a GBK round trip.
	if got := con.SafeText("三体"); got != "三体" {
		t.Fatalf("GBK-representable text altered: got %q", got)
	}

	// An emoji has no GBK encoding; it must be substituted, never dropped
	// wholesale and never an error.
	got := con.SafeText("book \U0001f600 title")
	if !strings.HasPrefix(got, "book ") || !strings.HasSuffix(got, " title") {
		t.Fatalf("surrounding text lost: got %q", got)
	}
	if strings.Contains(got, "\U0001f600") {
		t.Fatalf("unencodable rune not substituted: got %q", got)
	}
}

func TestEncodingForCodepage(t *testing.T) {
	if encodingForCodepage(936) == nil {
		t.Error("codepage 936 should map to GBK")
	}
	if encodingForCodepage(65001) != nil {
		t.Error("UTF-8 codepage needs no substitution pass")
	}
	if encodingForCodepage(0) != nil {
		t.Error("unknown codepage should pass through")
	}
}
