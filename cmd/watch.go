package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"rx2kit/core/convert"
	"rx2kit/core/rex"
	"rx2kit/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchOcta bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and convert REX2 files as they appear",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		dec := rex.NewHelperDecoder(cfg.RexHelperPath)
		opts := convert.Options{Format: convert.FormatSlices, WavBitDepth: cfg.WavBitDepth}
		if watchOcta {
			opts.Format = convert.FormatOctatrack
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logger.Fatal("cannot create watcher", logger.ErrorField(err))
		}
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			logger.Fatal("cannot watch directory",
				logger.String("dir", dir),
				logger.ErrorField(err))
		}
		logger.Info("watching for REX2 files",
			logger.String("dir", dir),
			logger.Duration("settle", cfg.WatchSettle))

		// Writers may deliver a file in several chunks; wait until it sits
		// unchanged for the settle interval before converting.
		var mu sync.Mutex
		pending := make(map[string]*time.Timer)
		schedule := func(path string) {
			mu.Lock()
			defer mu.Unlock()
			if t, ok := pending[path]; ok {
				t.Reset(cfg.WatchSettle)
				return
			}
			pending[path] = time.AfterFunc(cfg.WatchSettle, func() {
				mu.Lock()
				delete(pending, path)
				mu.Unlock()

				res, err := convert.Convert(dec, path, opts)
				if err != nil {
					logger.Error("conversion failed",
						logger.String("input", path),
						logger.ErrorField(err))
					return
				}
				logger.Info("converted",
					logger.String("input", path),
					logger.String("wav", res.Paths.WavPath),
					logger.String("metadata", res.Paths.MetaPath),
					logger.Int("slices", res.EncodedSlices))
			})
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !strings.EqualFold(filepath.Ext(ev.Name), ".rx2") {
					continue
				}
				schedule(ev.Name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", logger.ErrorField(err))
			case <-sig:
				logger.Info("stopping watch")
				return
			}
		}
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchOcta, "octa", false, "write Octatrack .ot sidecars instead of .slices lists")
	rootCmd.AddCommand(watchCmd)
}
