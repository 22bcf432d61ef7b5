package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/logger"
)

func TestLogger(t *testing.T) {
	type testCase struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}

	testCases := []testCase{
		{
			name: "no logger enabled log level not set",
			cfg: logger.Log{
				LogLevel:    "",
				ServiceName: "test",
				AppName:     "test",
			},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console enabled console writer enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled trace with caller expect json",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := testLoggerConfig(t, tc.cfg)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if tc.outPutIsJSON {
				for _, line := range strings.Split(out, "\n") {
					if line == "" {
						continue
					}

					var entry map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &entry), "line: %s", line)
					assert.Equal(t, "test", entry["app"])
				}
			}
		})
	}
}

func TestInitErrors(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", ServiceName: "x", AppName: "x"})
	require.Error(t, err)

	err = logger.Init(logger.Log{LogLevel: "info", AppName: "x"})
	require.ErrorIs(t, err, logger.ErrServiceNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "info", ServiceName: "x"})
	require.ErrorIs(t, err, logger.ErrAppNameIsEmpty)
}

func TestLevelWriter(t *testing.T) {
	var info, warn, errs bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, WarnWriter: &warn, ErrorWriter: &errs}

	for _, lvl := range []zerolog.Level{zerolog.DebugLevel, zerolog.InfoLevel, zerolog.TraceLevel} {
		_, err := lw.WriteLevel(lvl, []byte("i"))
		require.NoError(t, err)
	}

	_, _ = lw.WriteLevel(zerolog.WarnLevel, []byte("w"))
	_, _ = lw.WriteLevel(zerolog.ErrorLevel, []byte("e"))
	_, _ = lw.WriteLevel(zerolog.FatalLevel, []byte("f"))
	_, _ = lw.WriteLevel(zerolog.Disabled, []byte("x"))

	assert.Equal(t, "iii", info.String())
	assert.Equal(t, "w", warn.String())
	assert.Equal(t, "ef", errs.String())
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File:        logger.LogFile{Enabled: true, Path: dir},
	})
	require.NoError(t, err)

	log.Info().Msg("to file")
	log.Error().Err(alwaysErrFunc()).Msg("to error file")

	info, err := os.ReadFile(dir + "/info.log")
	require.NoError(t, err)
	assert.Contains(t, string(info), "to file")

	errLog, err := os.ReadFile(dir + "/error.log")
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "a test error")
}

func alwaysErrFunc() error {
	return errors.New("a test error") //nolint:err113
}

func testLoggerConfig(t *testing.T, cfg logger.Log) string {
	t.Helper()
	// keep default std out
	stdout := os.Stdout
	stderr := os.Stderr

	// capture stdout and stderr
	r, w, _ := os.Pipe()
	os.Stdout = w
	os.Stderr = w

	err := logger.Init(cfg)
	if err != nil {
		t.Error(err)
	}

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(alwaysErrFunc()).Msg("this err message should be seen...")

	outC := make(chan string)
	// copy the output in a separate goroutine so printing can't block indefinitely
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	// back to normal state
	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
