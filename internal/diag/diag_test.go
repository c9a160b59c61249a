package diag

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textdigest/pkg/contract"
)

func events(t *testing.T, buf *bytes.Buffer) []Event {
	t.Helper()
	var out []Event
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), "每行应为合法 JSON")
		out = append(out, ev)
	}
	return out
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{context.Canceled, CodeCancel},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), CodeCancel},
		{fmt.Errorf("bad key: %w", contract.ErrConfig), CodeConfig},
		{fmt.Errorf("utf8: %w", contract.ErrDecode), CodeDecode},
		{contract.ErrBackendUnavailable, CodeBackend},
		{contract.ErrOptionUnsupported, CodeBackend},
		{contract.ErrInvalidInput, CodeInvariant},
		{contract.ErrPathInvalid, CodeInvariant},
		{&fs.PathError{Op: "open", Path: "/", Err: errors.New("x")}, CodeIO},
		{fs.ErrNotExist, CodeIO},
		{errors.New("other"), CodeUnknown},
		{nil, CodeUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.err), "err=%v", c.err)
	}
}

func TestLoggerEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Level: "debug", Sink: &buf})
	require.NotEmpty(t, l.CorrID())

	timer := l.StartWith("pipeline", "run", "a.md", map[string]string{"k": "v"})
	timer.Finish("ok", 3)
	l.Debug("scorer", "mode", map[string]string{"mode": "lexical"})
	l.Warn("config", "careful", nil)
	l.Error("reader", string(CodeIO), "boom", timer.Since())

	evs := events(t, &buf)
	require.Len(t, evs, 5)
	assert.Equal(t, "start", evs[0].Stage)
	assert.Equal(t, "a.md", evs[0].FileID)
	assert.Equal(t, "finish", evs[1].Stage)
	assert.Equal(t, int64(3), evs[1].Count)
	assert.Equal(t, "a.md", evs[1].FileID, "finish 应带上 file_id")
	assert.Equal(t, "debug", evs[2].Level)
	assert.Equal(t, "warn", evs[3].Level)
	assert.Equal(t, "error", evs[4].Level)
	assert.Equal(t, "io", evs[4].Code)
	for _, ev := range evs {
		assert.Equal(t, l.CorrID(), ev.CorrID)
		assert.NotEmpty(t, ev.TS)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Level: "warn", Sink: &buf})
	l.Debug("c", "x", nil)
	l.Start("c", "x").Finish("y", 0)
	l.Warn("c", "kept", nil)
	evs := events(t, &buf)
	require.Len(t, evs, 1)
	assert.Equal(t, "kept", evs[0].Msg)
}

func TestLoggerOff(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Level: "off", Sink: &buf})
	l.Error("c", "x", "y", nil)
	assert.Zero(t, buf.Len())
	assert.NoError(t, l.Close())
}

func TestLoggerNilSafe(t *testing.T) {
	var l *Logger
	l.Debug("c", "x", nil)
	l.Start("c", "x").Finish("y", 1)
	l.Error("c", "x", "y", nil)
	assert.Empty(t, l.CorrID())
	assert.NoError(t, l.Close())
	var tnil *Timer
	tnil.Finish("x", 0)
	assert.Nil(t, tnil.Since())
}

func TestLoggerRotatingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sub", "app.log")
	l := NewLogger(Options{Level: "info", File: file, MaxSizeMB: 1, MaxBackups: 1})
	l.Start("c", "hello").Finish("done", 1)
	require.NoError(t, l.Close())
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel(" DEBUG "))
	assert.Equal(t, Off, ParseLevel("off"))
	assert.Equal(t, Info, ParseLevel("loud"))
	assert.True(t, ValidLevel(""))
	assert.False(t, ValidLevel("loud"))
	var unknown Level = 12345
	assert.Equal(t, "info", unknown.String())
}

func TestNowUTC(t *testing.T) {
	_, err := time.Parse(time.RFC3339, NowUTC())
	assert.NoError(t, err)
}
