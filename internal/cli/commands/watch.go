package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 250 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var ordered bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync whenever the model file changes",
		Long: `Run sync once, then again every time the model file is saved.

A failed sync is reported and watching continues. Stop with Ctrl+C.`,
		Example: `  # Keep the dev database in step with models.yaml
  schemasync watch --target dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutJournal(cmd)
			opts := engineOptions{ordered: ordered}

			syncOnce := func() {
				if err := runSync(cmd, opts); err != nil {
					cc.Renderer.Error(err.Error())
				}
			}

			syncOnce()

			w := &modelWatcher{path: cc.Cfg.Models, debounce: watchDebounce, logger: cc.Logger}
			cc.Renderer.Println(cc.Renderer.Muted("Watching " + cc.Cfg.Models))
			return w.Run(cmd.Context(), syncOnce)
		},
	}

	cmd.Flags().BoolVar(&ordered, "ordered", false, "Sync referenced tables first")
	return cmd
}

// modelWatcher calls onChange after the model file settles following a write.
type modelWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// Run blocks until ctx is done. Editors that replace the file on save are
// handled by watching the containing directory.
func (w *modelWatcher) Run(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(w.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("model file changed", "path", event.Name, "op", event.Op.String())
			settle = time.After(w.debounce)
		case <-settle:
			settle = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}
