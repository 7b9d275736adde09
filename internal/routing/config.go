package routing

import (
    "log/slog"
    "os"

    "github.com/fsnotify/fsnotify"
    "gopkg.in/yaml.v3"
)

type thresholdFile struct {
    Thresholds Thresholds `yaml:"thresholds"`
}

// LoadThresholds reads amount tiers from a YAML file.
func LoadThresholds(path string) (Thresholds, error) {
    b, err := os.ReadFile(path)
    if err != nil {
        return Thresholds{}, err
    }
    var f thresholdFile
    if err := yaml.Unmarshal(b, &f); err != nil {
        return Thresholds{}, err
    }
    if f.Thresholds.Manager <= 0 || f.Thresholds.Admin <= f.Thresholds.Manager {
        return DefaultThresholds, nil
    }
    return f.Thresholds, nil
}

// Watch reloads thresholds into the engine whenever the file changes.
// It returns a stop function. Reload errors are logged and skipped; the
// engine keeps its last good tiers.
func Watch(path string, e *Engine) (func(), error) {
    w, err := fsnotify.NewWatcher()
    if err != nil {
        return nil, err
    }
    if err := w.Add(path); err != nil {
        w.Close()
        return nil, err
    }
    done := make(chan struct{})
    go func() {
        for {
            select {
            case ev, ok := <-w.Events:
                if !ok {
                    return
                }
                if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
                    continue
                }
                th, err := LoadThresholds(path)
                if err != nil {
                    slog.Warn("routing thresholds reload failed", "file", path, "error", err)
                    continue
                }
                e.SetThresholds(th)
                slog.Info("routing thresholds reloaded", "manager", th.Manager, "admin", th.Admin)
            case err, ok := <-w.Errors:
                if !ok {
                    return
                }
                slog.Warn("routing config watcher", "error", err)
            case <-done:
                return
            }
        }
    }()
    return func() { close(done); w.Close() }, nil
}
