// Package delegate runs gateway operations through an external interpreter script:
// `{interpreter} {script} {operation} {argsJSON}`.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ytsearch/internal/domain"
	"github.com/kailas-cloud/ytsearch/internal/metrics"
)

// Operation names understood by the client script.
const (
	OpSearchSimilar = "search_similar_youtube_video"
	OpSearchVideos  = "search_youtube_videos"
	OpChannelInfo   = "get_channel_info"
	OpSaveChannel   = "save_channel_youtube_embeddings"
	OpTranscript    = "get_youtube_transcript"
)

const service = "delegate"

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 2 * time.Second

// Config holds the interpreter invocation settings.
type Config struct {
	Interpreter string
	Script      string
	Dir         string
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Client invokes the script once per call. No state is shared between calls.
type Client struct {
	interpreter string
	script      string
	dir         string
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient creates a delegation client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		interpreter: cfg.Interpreter,
		script:      cfg.Script,
		dir:         cfg.Dir,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Invoke runs one operation with args encoded as a JSON object and returns trimmed stdout.
func (c *Client) Invoke(ctx context.Context, operation string, args any) (_ string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(service, operation, start, err) }()

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode %s args: %w", operation, domain.ErrDelegation)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.interpreter, c.script, operation, string(argsJSON))
	cmd.Dir = c.dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		c.logger.Warn("Delegated call timed out",
			zap.String("operation", operation),
			zap.Duration("timeout", c.timeout),
			zap.String("stderr", stderr.String()),
		)
		return "", fmt.Errorf("delegated %s: %w", operation, domain.ErrTimeout)
	}
	if ctx.Err() != nil {
		return "", fmt.Errorf("delegated %s: %w", operation, ctx.Err())
	}

	if runErr != nil {
		derr := &domain.DelegationError{
			Operation: operation,
			ExitCode:  -1,
			Stdout:    stdout.String(),
			Stderr:    stderr.String(),
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			derr.ExitCode = exitErr.ExitCode()
		} else {
			derr.Message = "failed to start interpreter"
		}
		c.logger.Warn("Delegated call failed",
			zap.String("operation", operation),
			zap.Int("exit_code", derr.ExitCode),
			zap.String("stdout", derr.Stdout),
			zap.String("stderr", derr.Stderr),
			zap.Error(runErr),
		)
		return "", derr
	}

	return strings.TrimSpace(stdout.String()), nil
}
