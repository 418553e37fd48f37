package processor

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// progress follows the number of words written.
type progress interface {
	Add(n int)
	Finish()
}

// newProgress draws a bar when the progress writer is a terminal and logs
// periodically otherwise.
func newProgress(total int, config Config, logger *zap.Logger) progress {
	if isTerminal(config.Progress) {
		bar := progressbar.NewOptions64(int64(total),
			progressbar.OptionSetWriter(config.Progress),
			progressbar.OptionSetDescription("transferring"),
			progressbar.OptionSetItsString("words"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		return &barProgress{bar: bar}
	}
	return newLogProgress(total, config.ProgressInterval, logger)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (b *barProgress) Add(n int) {
	b.bar.Add(n) //nolint:errcheck
}

func (b *barProgress) Finish() {
	b.bar.Finish() //nolint:errcheck
}

// logProgress logs the word count every interval while it changes.
type logProgress struct {
	total  int
	done   atomic.Int64
	logger *zap.Logger
	start  time.Time
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func newLogProgress(total int, interval time.Duration, logger *zap.Logger) *logProgress {
	p := &logProgress{
		total:  total,
		logger: logger,
		start:  time.Now(),
		stop:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop(interval)
	return p
}

func (p *logProgress) loop(interval time.Duration) {
	defer p.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last int64 = -1
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			done := p.done.Load()
			if done == last {
				continue
			}
			last = done
			p.log("progress", done)
		}
	}
}

func (p *logProgress) log(msg string, done int64) {
	percent := 100.0
	if p.total > 0 {
		percent = float64(done) * 100 / float64(p.total)
	}
	p.logger.Info(msg,
		zap.Int64("done", done),
		zap.Int("total", p.total),
		zap.Float64("percent", percent),
		zap.Duration("elapsed", time.Since(p.start).Round(time.Second)))
}

func (p *logProgress) Add(n int) {
	p.done.Add(int64(n))
}

func (p *logProgress) Finish() {
	p.once.Do(func() {
		close(p.stop)
		p.wg.Wait()
		p.log("finished", p.done.Load())
	})
}
