package runtime

import (
	"log/slog"
	"time"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/metrics"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/plugin"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/robot"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/visual"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/world"
)

// Batch runs every (world × program) combination sequentially with a shared
// unit catalog and trial policy. Each trial gets its own world, rules and
// VM; a failing trial is reported like any other and never stops the batch.
type Batch struct {
	Worlds   []*plugin.World
	Programs []*plugin.Program
	Units    []*robot.Factory

	Allowed      []string
	RobotName    string
	Placement    *world.Spawn
	LimitTotal   int
	LimitPerKind map[string]int
	Deadline     time.Duration

	Observer visual.Observer
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Run executes every combination in order and returns one result per trial.
func (b *Batch) Run() []*Result {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]*Result, 0, len(b.Worlds)*len(b.Programs))
	for _, w := range b.Worlds {
		for _, p := range b.Programs {
			rt, err := New(Config{
				World:        w,
				Program:      p,
				Units:        b.Units,
				Allowed:      b.Allowed,
				RobotName:    b.RobotName,
				Placement:    b.Placement,
				LimitTotal:   b.LimitTotal,
				LimitPerKind: b.LimitPerKind,
				Deadline:     b.Deadline,
				Observer:     b.Observer,
				Metrics:      b.Metrics,
			})
			if err != nil {
				logger.Error("trial setup failed", "error", err)
				continue
			}
			logger.Info("trial starting", "id", rt.ID(), "world", w.Name, "program", p.Name)
			res, err := rt.Run()
			if err != nil {
				logger.Error("trial refused to run", "id", rt.ID(), "error", err)
				continue
			}
			logger.Info("trial finished",
				"id", rt.ID(),
				"state", res.State.String(),
				"score", res.Score,
			)
			results = append(results, res)
		}
	}
	return results
}
