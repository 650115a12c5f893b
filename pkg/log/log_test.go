package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithLevel(&buf, "warn", false)
	if err != nil {
		t.Fatal(err)
	}

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info line to be filtered, got %q", out)
	}
	if !strings.Contains(out, "level=warning msg=shown 2") {
		t.Errorf("expected warning line, got %q", out)
	}
}

func TestNewWithLevel_Invalid(t *testing.T) {
	if _, err := NewWithLevel(&bytes.Buffer{}, "loud", false); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNullLogger(t *testing.T) {
	l := NewNullLogger()
	l.Debugf("%s", "nothing")
	l.Errorf("%s", "nothing")
}
