// Package pipeline wires every component together into two run modes: a
// one-pass streaming mode (constant or dynamically adjusted zoom) and a
// two-pass mode that buffers the full per-frame Motion list and restarts
// the decoder for a second, zoom-aware encode.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/stabilize/internal/config"
	"github.com/ivlev/stabilize/internal/container"
	"github.com/ivlev/stabilize/internal/debugreport"
	"github.com/ivlev/stabilize/internal/estimator"
	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
	"github.com/ivlev/stabilize/internal/provider"
	"github.com/ivlev/stabilize/internal/system"
)

// resourceSampleInterval is how often --verbose logs this process's CPU
// and memory usage while a run is in progress.
const resourceSampleInterval = 5 * time.Second

// Pipeline owns every component instance for one run and the shared Frame
// pool they recycle buffers through.
type Pipeline struct {
	cfg  config.Config
	log  *logrus.Logger
	pool *frame.Pool

	report *debugreport.Report
}

// New constructs a Pipeline from a validated Config.
func New(cfg config.Config, log *logrus.Logger) *Pipeline {
	p := &Pipeline{cfg: cfg, log: log, pool: frame.NewPool()}
	if cfg.Debug {
		p.report = &debugreport.Report{}
	}
	return p
}

// Run probes the input, picks a run mode, and processes the whole stream.
func (p *Pipeline) Run(ctx context.Context, inputPath, outputPath string) error {
	system.InitResourceLimits(p.log)
	if p.cfg.Verbose {
		sampler := system.StartResourceSampler(ctx, p.log, resourceSampleInterval)
		defer sampler.Stop()
	}

	info, err := container.Probe(ctx, inputPath)
	if err != nil {
		return err
	}
	if err := (&frame.Frame{Format: info.PixelFormat, Width: info.Width, Height: info.Height}).Validate(); err != nil {
		return err
	}

	downscale := p.cfg.Downscale
	if downscale < 1 {
		downscale = provider.AutoDownscale(info.Height, info.Width)
	}
	workW, workH := provider.WorkSize(downscale, info.Width, info.Height)

	ignore := make([]motion.IgnoreRect, len(p.cfg.Ignore))
	for i, r := range p.cfg.Ignore {
		ignore[i] = r.Scaled(downscale)
	}

	var runErr error
	if p.cfg.Autozoom && info.FrameCount > 0 {
		runErr = p.runTwoPass(ctx, inputPath, outputPath, info, downscale, workW, workH, ignore)
	} else {
		if p.cfg.Autozoom {
			p.log.Warn("autozoom requested but input frame count is unknown; falling back to one-pass dynamic autozoom")
		}
		runErr = p.runOnePass(ctx, inputPath, outputPath, info, downscale, workW, workH, ignore, p.cfg.Autozoom)
	}
	if runErr != nil {
		return runErr
	}

	if p.report != nil {
		reportPath := outputPath + ".debug.yaml"
		if err := p.report.WriteFile(reportPath); err != nil {
			p.log.WithError(err).Warn("failed to write debug report")
		}
	}
	return nil
}

// encoderOptions builds the container.Options shared by both run modes.
func (p *Pipeline) encoderOptions(info container.Info) container.Options {
	return container.Options{Codec: p.cfg.Codec, BitrateKbs: p.cfg.BitrateKbs, FrameRate: info.FrameRate}
}

// processFrame runs the Provider and Estimator for one decoded frame,
// returning its raw Motion. Pulled out so both run modes share it.
func processFrame(prov *provider.Provider, est *estimator.Estimator, f *frame.Frame, workBuf **motion.WorkFrame) motion.Motion {
	*workBuf = prov.Process(f.Luma(), f.Format.BitDepth, *workBuf)
	return est.Estimate(*workBuf)
}

// drainDecodeErr normalizes io.EOF (clean end of stream) to nil.
func drainDecodeErr(err error) error {
	if err == io.EOF {
		return nil
	}
	return err
}
