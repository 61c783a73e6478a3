package multislogger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kolide/kit/ulid"
	"github.com/stretchr/testify/require"
)

func TestMultiSlogger(t *testing.T) {
	t.Parallel()

	var stderrBuf, debugLogBuf bytes.Buffer

	clearBufsFn := func() {
		stderrBuf.Reset()
		debugLogBuf.Reset()
	}

	multislogger := New()
	multislogger.Logger.DebugContext(context.TODO(), "dont panic")

	multislogger = New(slog.NewJSONHandler(&debugLogBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stderrLogLevel := new(slog.LevelVar)
	stderrLogLevel.Set(slog.LevelInfo)
	multislogger.AddHandler(slog.NewJSONHandler(&stderrBuf, &slog.HandlerOptions{Level: stderrLogLevel}))

	multislogger.Logger.DebugContext(context.TODO(), "debug_msg")

	require.Contains(t, debugLogBuf.String(), "debug_msg", "should be in debug log since it's debug level")
	require.Empty(t, stderrBuf.String(), "should not be in stderr log since it's debug level")
	clearBufsFn()

	multislogger.Logger.InfoContext(context.TODO(), "info_msg")

	require.Contains(t, debugLogBuf.String(), "info_msg", "should be in debug log since it's info level")
	require.Contains(t, stderrBuf.String(), "info_msg", "should be in stderr log since it's info level")
	clearBufsFn()

	stderrLogLevel.Set(slog.LevelDebug)
	multislogger.Logger.DebugContext(context.TODO(), "debug_msg_2")

	require.Contains(t, debugLogBuf.String(), "debug_msg_2")
	require.Contains(t, stderrBuf.String(), "debug_msg_2", "should now be in stderr log since its level was set to debug")
	clearBufsFn()

	// analysis_id gets added as an attribute when present in context
	analysisId := ulid.New()
	ctx := context.WithValue(context.TODO(), AnalysisIdKey, analysisId)
	multislogger.Logger.Log(ctx, slog.LevelDebug, "info_with_interesting_ctx_value")

	require.Contains(t, debugLogBuf.String(), "info_with_interesting_ctx_value")
	requireContainsAttribute(t, &debugLogBuf, AnalysisIdKey.String(), analysisId)
	requireContainsAttribute(t, &stderrBuf, AnalysisIdKey.String(), analysisId)
	clearBufsFn()
}

func TestMultiSlogger_ContextValuesAndUTC(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	slogger := New(slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})).Logger

	ctx := context.WithValue(context.TODO(), ProjectKey, "my-project")
	slogger.Log(ctx, slog.LevelInfo, "with_project")

	records := jsonl(t, &logBuf)
	require.Len(t, records, 1)
	require.Equal(t, "my-project", records[0][ProjectKey.String()])
	require.NotContains(t, records[0], AnalysisIdKey.String(), "unset context values are not added")

	ts, ok := records[0]["time"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	_, offset := parsed.Zone()
	require.Equal(t, 0, offset, "time should be UTC")
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	slogger := NewNopLogger()
	require.NotNil(t, slogger)
	slogger.Log(context.TODO(), slog.LevelError, "discarded")
}

func requireContainsAttribute(t *testing.T, r io.Reader, key, value string) {
	for _, data := range jsonl(t, r) {
		if v, ok := data[key]; ok {
			require.Equal(t, value, v)
			return
		}
	}

	t.Fatal("attribute not found")
}

func jsonl(t *testing.T, reader io.Reader) []map[string]interface{} {
	var result []map[string]interface{}

	decoder := json.NewDecoder(reader)
	for {
		var data map[string]interface{}

		err := decoder.Decode(&data)
		if err == io.EOF {
			break
		}

		require.NoError(t, err)
		result = append(result, data)
	}

	return result
}
