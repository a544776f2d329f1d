package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sflanaga/parascan/internal/entrymeta"
)

func TestFileRecordHeaderUsesDelimiter(t *testing.T) {
	var buf bytes.Buffer
	FileRecordHeader(&buf, ";")
	if !strings.Contains(buf.String(), ";") {
		t.Errorf("expected header to use the ';' delimiter, got %q", buf.String())
	}
	if !strings.HasPrefix(buf.String(), "type;path;size;") {
		t.Errorf("unexpected header format: %q", buf.String())
	}
}

func TestWriteFileRecordIncludesPathAndSize(t *testing.T) {
	item := entrymeta.Item{
		Path: "/root/a.txt",
		Meta: entrymeta.Metadata{
			Kind:    entrymeta.KindFile,
			Size:    1234,
			ModTime: time.Unix(1700000000, 0),
			Owner:   0,
			Perm:    0o644,
		},
	}

	var buf bytes.Buffer
	WriteFileRecord(&buf, "|", item)
	out := buf.String()

	if !strings.HasPrefix(out, "file|/root/a.txt|1234|") {
		t.Errorf("unexpected record format: %q", out)
	}
}

func TestWriteFileRecordMarksDirectories(t *testing.T) {
	item := entrymeta.Item{
		Path: "/root/sub",
		Meta: entrymeta.Metadata{Kind: entrymeta.KindDir, ModTime: time.Unix(1700000000, 0)},
	}

	var buf bytes.Buffer
	WriteFileRecord(&buf, "|", item)
	if !strings.HasPrefix(buf.String(), "dir|/root/sub|") {
		t.Errorf("unexpected record format: %q", buf.String())
	}
}
