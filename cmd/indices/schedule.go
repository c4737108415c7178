package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"IndexTracker/internal/notifier"
	"IndexTracker/internal/pipeline"
	"IndexTracker/internal/scheduler"

	"github.com/google/subcommands"
)

// scheduleCmd implements the "schedule" command.
type scheduleCmd struct {
	now bool
}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "regenerates the table on a cron schedule" }
func (*scheduleCmd) Usage() string {
	return `schedule [-now]:

Runs until interrupted, regenerating the table on the cron spec from the
config (schedule.cron, six fields with seconds first). With Telegram
configured, the chat can send /run to regenerate at once and /status to get
the outcome of the last run.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.now, "now", false, "run once immediately on start")
}

func (c *scheduleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := &daemon{pipeline: a.pipeline()}
	sched := scheduler.NewScheduler(ctx, a.log)
	if err := sched.Register("export", a.cfg.Schedule.Cron, d.run); err != nil {
		a.log.Error().Err(err).Msg("register cron task")
		return subcommands.ExitFailure
	}
	sched.Start()

	if c.now {
		a.log.Info().Msg("running export now")
		go sched.RunNow("export", d.run)
	}

	if tn, ok := d.pipeline.Notifier.(*notifier.TelegramNotifier); ok {
		go tn.StartPolling(ctx, func(ctx context.Context, cmd string) string {
			return d.handleCommand(cmd, func() bool { return sched.RunNow("export", d.run) })
		})
		a.log.Info().Msg("telegram polling started")
	}

	a.log.Info().Msg("indices scheduler is running, press Ctrl+C to stop")
	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received, stopping...")
	sched.Stop()
	return subcommands.ExitSuccess
}

// daemon remembers the outcome of the last scheduled run.
type daemon struct {
	pipeline *pipeline.Pipeline

	mu      sync.Mutex
	last    *pipeline.Result
	lastErr error
	lastAt  time.Time
}

func (d *daemon) run(ctx context.Context) error {
	res, err := d.pipeline.Run(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastAt = time.Now()
	d.lastErr = err
	if err == nil {
		d.last = res
	}
	return err
}

func (d *daemon) handleCommand(cmd string, runNow func() bool) string {
	var name string
	if fields := strings.Fields(cmd); len(fields) > 0 {
		name = fields[0]
	}
	switch name {
	case "/run":
		go runNow()
		return "⏳ Gerando índices acumulados..."
	case "/status":
		return d.status()
	default:
		return "Comandos disponíveis:\n• /run - gerar agora\n• /status - última execução"
	}
}

func (d *daemon) status() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.lastAt.IsZero():
		return "Nenhuma execução ainda."
	case d.lastErr != nil:
		return notifier.FormatFailure(d.lastErr, d.lastAt)
	default:
		return notifier.FormatRunSummary(&notifier.Report{
			Table:      d.last.Table,
			Missing:    d.last.Missing,
			OutputPath: d.last.OutputPath,
			At:         d.lastAt,
		})
	}
}
