package delegate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/ytsearch/internal/domain"
)

// writeScript creates a POSIX shell script standing in for the client script.
func writeScript(t *testing.T, body string) (dir, name string) {
	t.Helper()
	dir = t.TempDir()
	name = "client.sh"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	return dir, name
}

func newShellClient(t *testing.T, body string, timeout time.Duration) *Client {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	dir, name := writeScript(t, body)
	return NewClient(Config{Interpreter: "/bin/sh", Script: name, Dir: dir, Timeout: timeout})
}

func TestInvoke_PassesOperationAndArgs(t *testing.T) {
	c := newShellClient(t, `printf '  {"op":"%s","args":%s}\n\n' "$1" "$2"`, 5*time.Second)

	out, err := c.Invoke(context.Background(), OpSearchVideos, map[string]string{"query": "go \"generics\""})
	require.NoError(t, err)
	assert.Equal(t, `{"op":"search_youtube_videos","args":{"query":"go \"generics\""}}`, out)
}

func TestInvoke_RunsInConfiguredDir(t *testing.T) {
	c := newShellClient(t, `pwd`, 5*time.Second)

	out, err := c.Invoke(context.Background(), OpTranscript, map[string]string{"url": "u"})
	require.NoError(t, err)

	want, _ := filepath.EvalSymlinks(c.dir)
	got, _ := filepath.EvalSymlinks(out)
	assert.Equal(t, want, got)
}

func TestInvoke_NonZeroExit(t *testing.T) {
	c := newShellClient(t, `echo partial; echo "Traceback: boom" >&2; exit 3`, 5*time.Second)

	_, err := c.Invoke(context.Background(), OpChannelInfo, map[string]string{"video_url": "u"})
	require.ErrorIs(t, err, domain.ErrDelegation)

	var derr *domain.DelegationError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, OpChannelInfo, derr.Operation)
	assert.Equal(t, 3, derr.ExitCode)
	assert.Equal(t, "partial\n", derr.Stdout)
	assert.Contains(t, derr.Stderr, "Traceback: boom")
}

func TestInvoke_MissingInterpreter(t *testing.T) {
	c := NewClient(Config{Interpreter: "/nonexistent/python", Script: "x.py", Dir: t.TempDir()})

	_, err := c.Invoke(context.Background(), OpSearchSimilar, map[string]string{"query": "q"})
	require.ErrorIs(t, err, domain.ErrDelegation)
}

func TestInvoke_Timeout(t *testing.T) {
	c := newShellClient(t, `sleep 5`, 100*time.Millisecond)

	start := time.Now()
	_, err := c.Invoke(context.Background(), OpSaveChannel, map[string]string{"channel_id": "UC1"})
	require.True(t, errors.Is(err, domain.ErrTimeout), "got %v", err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestInvoke_CallerCancel(t *testing.T) {
	c := newShellClient(t, `sleep 5`, 0)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := c.Invoke(ctx, OpSearchSimilar, map[string]string{"query": "q"})
	require.ErrorIs(t, err, context.Canceled)
}
