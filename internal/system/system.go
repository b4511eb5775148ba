// Package system holds the process-level concerns that sit outside the
// stabilization pipeline proper: raising the open-file-descriptor limit
// (ffmpeg subprocesses in two-pass mode can hold several pipes open at
// once) and, under --verbose, periodically sampling this process's own CPU
// and memory usage via gopsutil.
package system

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// InitResourceLimits raises RLIMIT_NOFILE to a level comfortable for the
// decode/encode subprocess pipes plus any two-pass restart.
func InitResourceLimits(log *logrus.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.WithError(err).Debug("could not read RLIMIT_NOFILE")
		return
	}

	if rLimit.Cur >= 2048 {
		return
	}
	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.WithError(err).Debug("could not raise RLIMIT_NOFILE")
		return
	}
	log.WithField("nofile", rLimit.Cur).Debug("raised open file limit")
}

// ResourceSampler periodically logs this process's CPU percent and RSS
// for the --verbose resource report.
type ResourceSampler struct {
	log    *logrus.Logger
	proc   *process.Process
	ticker *time.Ticker
	cancel context.CancelFunc
	done   chan struct{}
}

// StartResourceSampler begins logging resource usage at the given
// interval; call Stop to end it. Returns nil (no sampler) if the current
// process handle cannot be obtained.
func StartResourceSampler(ctx context.Context, log *logrus.Logger, interval time.Duration) *ResourceSampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.WithError(err).Debug("resource sampler unavailable")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &ResourceSampler{log: log, proc: proc, ticker: time.NewTicker(interval), cancel: cancel, done: make(chan struct{})}
	go s.run(ctx)
	return s
}

func (s *ResourceSampler) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticker.C:
			s.sample()
		}
	}
}

func (s *ResourceSampler) sample() {
	cpuPct, err := s.proc.CPUPercent()
	if err != nil {
		s.log.WithError(err).Debug("cpu sample failed")
		return
	}
	memInfo, err := s.proc.MemoryInfo()
	if err != nil {
		s.log.WithError(err).Debug("memory sample failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"cpu_pct": cpuPct,
		"rss_mb":  memInfo.RSS / (1024 * 1024),
	}).Info("resource usage")
}

// Stop halts sampling and waits for the background goroutine to exit.
func (s *ResourceSampler) Stop() {
	if s == nil {
		return
	}
	s.ticker.Stop()
	s.cancel()
	<-s.done
}
