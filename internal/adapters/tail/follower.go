// Package tail follows a log file and emits lines appended to it.
// It drives the forwarder CLI's file input: each appended line becomes one
// telemetry envelope.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fieldlabs/teleship/internal/ports"
)

// DefaultPollInterval is the fallback scan interval for appends that the
// file watcher misses (e.g. on network filesystems).
const DefaultPollInterval = 500 * time.Millisecond

// Follower tails a single file from its current end.
type Follower struct {
	path         string
	pollInterval time.Duration
	logger       ports.Logger
}

// NewFollower creates a follower for the given path.
func NewFollower(path string, logger ports.Logger) *Follower {
	return &Follower{
		path:         path,
		pollInterval: DefaultPollInterval,
		logger:       logger,
	}
}

// Follow blocks, invoking fn for every complete line appended to the file,
// until the context is canceled. Existing content is skipped; only new
// appends are reported. Partial lines are held back until their newline
// arrives.
func (f *Follower) Follow(ctx context.Context, fn func(line string)) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek %s: %w", f.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.path); err != nil {
		return fmt.Errorf("watch %s: %w", f.path, err)
	}

	reader := bufio.NewReader(file)
	var pending []byte

	readAvailable := func() {
		for {
			chunk, err := reader.ReadBytes('\n')
			pending = append(pending, chunk...)
			if err != nil {
				// EOF: keep any partial line for the next wakeup.
				return
			}
			line := string(pending[:len(pending)-1])
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			pending = pending[:0]
			if line != "" {
				fn(line)
			}
		}
	}

	poll := time.NewTicker(f.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				readAvailable()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("file watcher error", ports.Err(err))
		case <-poll.C:
			readAvailable()
		}
	}
}
