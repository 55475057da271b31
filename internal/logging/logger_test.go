package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/themis/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = ""
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "themis.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func newBufferLogger(verbose bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut, verbose), &out, &errOut
}

func TestSetStatus_Levels(t *testing.T) {
	tests := []struct {
		level   Level
		tag     string
		toError bool
	}{
		{LevelDebug, "[DEBUG]", false},
		{LevelInfo, "[INFO]", false},
		{LevelWarning, "[WARN]", false},
		{LevelError, "[ERROR]", true},
		{LevelGoodNews, "[SUCCESS]", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			l, out, errOut := newBufferLogger(true)
			l.SetStatus("hello", tt.level)

			got := out.String()
			if tt.toError {
				got = errOut.String()
				assert.Empty(t, out.String())
			}
			assert.Contains(t, got, tt.tag)
			assert.Contains(t, got, " hello\n")
		})
	}
}

func TestDebug_SilentUnlessVerbose(t *testing.T) {
	l, out, _ := newBufferLogger(false)
	l.Debug("hidden %d", 1)
	l.SetStatus("hidden too", LevelDebug)
	assert.Empty(t, out.String())
	assert.False(t, l.Verbose())
}

func TestWith_Prefix(t *testing.T) {
	l, out, _ := newBufferLogger(false)
	job := l.With("Holiday Tape")
	job.SetStatus("analyzing", LevelInfo)
	l.Info("plain")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "[INFO] Holiday Tape: analyzing"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "[INFO] plain"), lines[1])
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warning", "error", "good_news"} {
		lvl, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, Level(name), lvl)
	}
	_, err := ParseLevel("fatal")
	assert.Error(t, err)
}
