package golox

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisassembleChunk(t *testing.T) {
	compiled := mustCompile(t, "print 1 + 2;")
	var buf bytes.Buffer
	disassembleChunk(&buf, compiled, "code")
	out := buf.String()

	for _, want := range []string{"OP_CONSTANT", "OP_ADD", "OP_PRINT", "OP_RETURN"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in dump:\n%s", want, out)
		}
	}
	// Everything is on line 1, so only the first instruction shows a
	// line number; the rest carry the continuation marker.
	if !strings.Contains(out, "   | ") {
		t.Errorf("expected same-line marker in dump:\n%s", out)
	}
	if strings.Count(out, "   1 ") != 1 {
		t.Errorf("expected a single line-1 annotation:\n%s", out)
	}
}

func TestDisassembleConstantShowsPoolValue(t *testing.T) {
	compiled := mustCompile(t, `print "hello";`)
	var buf bytes.Buffer
	disassembleChunk(&buf, compiled, "code")
	if !strings.Contains(buf.String(), "'hello'") {
		t.Fatalf("expected constant value in dump:\n%s", buf.String())
	}
}

func TestDisassembleLocalSlots(t *testing.T) {
	compiled := mustCompile(t, "{ var a = 1; print a; }")
	var buf bytes.Buffer
	disassembleChunk(&buf, compiled, "code")
	if !strings.Contains(buf.String(), "OP_GET_LOCAL") {
		t.Fatalf("expected OP_GET_LOCAL in dump:\n%s", buf.String())
	}
}

func TestDisassembleNewLineNumberPerLine(t *testing.T) {
	compiled := mustCompile(t, "print 1;\nprint 2;")
	var buf bytes.Buffer
	disassembleChunk(&buf, compiled, "code")
	out := buf.String()
	if !strings.Contains(out, "   1 ") || !strings.Contains(out, "   2 ") {
		t.Fatalf("expected both source lines annotated:\n%s", out)
	}
}
