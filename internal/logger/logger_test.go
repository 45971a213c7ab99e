package logger

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestLogger_VerboseGating(t *testing.T) {
	var buf bytes.Buffer
	verbose := false
	log := NewWithWriter("api", func() bool { return verbose }, &buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("Expected no output when not verbose, got %q", buf.String())
	}

	log.Warn("visible %s", "warn")
	if !strings.Contains(buf.String(), "WARN [api] visible warn") {
		t.Errorf("Expected warn line, got %q", buf.String())
	}

	buf.Reset()
	verbose = true
	log.Debug("now shown")
	if !strings.Contains(buf.String(), "DEBUG [api] now shown") {
		t.Errorf("Expected debug line, got %q", buf.String())
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("session", func() bool { return true }, &buf)

	log.InfoWithFields("command completed", []Field{ID(7), F("target", "analysis"), Error(errors.New("boom"))})

	line := buf.String()
	for _, want := range []string{"INFO [session] command completed", "id=7", "target=analysis", "error=boom"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestLogger_WithComponentKeepsWriter(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("", nil, &buf)

	base.Error("root")
	base.WithComponent("ui").Error("child")

	out := buf.String()
	if !strings.Contains(out, "[main] root") {
		t.Errorf("Expected default component 'main', got %q", out)
	}
	if !strings.Contains(out, "[ui] child") {
		t.Errorf("Expected child component 'ui', got %q", out)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("dropped")
	log.WithComponent("x").Warn("dropped")
}

func TestLogger_WarnWithFieldsIgnoresVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("mcp", func() bool { return false }, &buf)

	log.WarnWithFields("%s failed", []Field{Endpoint("/api/v1/analyze")}, "analyze_python_code")

	line := buf.String()
	if !strings.Contains(line, "WARN [mcp] analyze_python_code failed [endpoint=/api/v1/analyze]") {
		t.Errorf("Expected warn line with fields, got %q", line)
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("watch", nil, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log.WithComponent("job").Warn("line %d", n)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("Expected 20 lines, got %d", got)
	}
}
