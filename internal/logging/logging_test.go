package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		binary  string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "logs",
			binary:  "generate_2d",
			want:    filepath.Join("logs", "generate_2d.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./logs",
			binary:  "generate_2d",
			want:    filepath.Join(".", "logs", "generate_2d.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "datagen"),
			binary:  "generate_2d",
			want:    filepath.Join("/var", "log", "datagen", "generate_2d.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.binary, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenLogFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	f, err := OpenLogFile(dir, "generate_2d", start)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, LogFilePath(dir, "generate_2d", start), f.Name())
	_, err = os.Stat(f.Name())
	assert.NoError(t, err)
}

func TestOpenGraylog(t *testing.T) {
	w, err := OpenGraylog("127.0.0.1:12201", "datagen")
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	_, err = w.Write([]byte(`{"msg":"hello"}`))
	assert.NoError(t, err)
}
