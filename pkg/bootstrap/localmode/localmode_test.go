package localmode

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/qualitygate/batch/pkg/log/multislogger"
	"github.com/qualitygate/batch/pkg/settings"
	"github.com/qualitygate/batch/pkg/settings/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		properties         map[string]string
		expectedEnabled    bool
		expectedLogRecords int
	}{
		{
			name:               "absent",
			properties:         map[string]string{},
			expectedEnabled:    false,
			expectedLogRecords: 0,
		},
		{
			name:               "explicitly true",
			properties:         map[string]string{"sonar.local": "true"},
			expectedEnabled:    true,
			expectedLogRecords: 1,
		},
		{
			name:               "explicitly false",
			properties:         map[string]string{"sonar.local": "false"},
			expectedEnabled:    false,
			expectedLogRecords: 0,
		},
		{
			name:               "malformed",
			properties:         map[string]string{"sonar.local": "garbage"},
			expectedEnabled:    false,
			expectedLogRecords: 0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logBytes bytes.Buffer
			slogger := slog.New(slog.NewJSONHandler(&logBytes, &slog.HandlerOptions{Level: slog.LevelInfo}))

			s := settings.New(multislogger.NewNopLogger(), nil, settings.WithProperties(tt.properties))
			l := New(s, slogger)

			for i := 0; i < 5; i++ {
				require.Equal(t, tt.expectedEnabled, l.Enabled())
			}
			require.Empty(t, logBytes.String(), "Enabled must not log")

			l.Start(context.TODO())

			records := jsonl(t, &logBytes)
			require.Len(t, records, tt.expectedLogRecords)
			for _, record := range records {
				require.Equal(t, "Local Mode", record["msg"])
				require.Equal(t, "INFO", record["level"])
			}
		})
	}
}

type countingProvider struct {
	calls int
	value bool
}

func (c *countingProvider) GetBool(key keys.SettingKey) bool {
	c.calls++
	return c.value
}

func TestLocalMode_ReadsSettingsOnce(t *testing.T) {
	t.Parallel()

	provider := &countingProvider{value: true}
	l := New(provider, multislogger.NewNopLogger())
	require.Equal(t, 1, provider.calls)

	// Later changes to the provider are not observed
	provider.value = false
	require.True(t, l.Enabled())
	require.Equal(t, 1, provider.calls)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func TestLocalMode_StartIsNotDeduplicated(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	l := New(&countingProvider{value: true}, notifier)

	l.Start(context.TODO())
	l.Start(context.TODO())
	l.Start(context.TODO())

	require.Equal(t, []string{"Local Mode", "Local Mode", "Local Mode"}, notifier.messages)
}

func TestLocalMode_ConcurrentReads(t *testing.T) {
	t.Parallel()

	l := New(&countingProvider{value: true}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, l.Enabled())
		}()
	}
	wg.Wait()

	// No notifier: Start must not panic
	l.Start(context.TODO())
}

func TestLocalMode_NilProvider(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	l := New(nil, notifier)
	require.NotNil(t, l)
	require.False(t, l.Enabled())

	l.Start(context.TODO())
	require.Empty(t, notifier.messages)
}

func TestLocalMode_Nil(t *testing.T) {
	t.Parallel()

	var l *LocalMode
	require.False(t, l.Enabled())
	l.Start(context.TODO())
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
