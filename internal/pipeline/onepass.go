package pipeline

import (
	"context"
	"fmt"

	"github.com/ivlev/stabilize/internal/container"
	"github.com/ivlev/stabilize/internal/debugreport"
	"github.com/ivlev/stabilize/internal/estimator"
	"github.com/ivlev/stabilize/internal/frame"
	"github.com/ivlev/stabilize/internal/motion"
	"github.com/ivlev/stabilize/internal/planner"
	"github.com/ivlev/stabilize/internal/provider"
	"github.com/ivlev/stabilize/internal/smoother"
	"github.com/ivlev/stabilize/internal/warp"
)

// runOnePass streams decode -> estimate -> smooth -> (dynamic zoom) -> warp
// -> encode without buffering the whole stream. Corrections lag decode by
// up to Params.MaxWindow() frames (the Smoother's delay line), so decoded
// frames are held in a small FIFO until their correction is ready.
func (p *Pipeline) runOnePass(ctx context.Context, inputPath, outputPath string, info container.Info, downscale, workW, workH int, ignore []motion.IgnoreRect, dynamicAutozoom bool) error {
	dec, err := container.NewDecoder(ctx, inputPath, info, p.pool, p.log)
	if err != nil {
		return err
	}
	enc, err := container.NewEncoder(ctx, outputPath, info, p.encoderOptions(info), p.pool, p.log)
	if err != nil {
		dec.Close()
		return err
	}

	prov := provider.New(downscale)
	est := estimator.New(p.cfg.Params, ignore)
	sm := smoother.New(p.cfg.Params)
	warper := warp.New()

	var workBuf *motion.WorkFrame
	queue := make([]*frame.Frame, 0, p.cfg.Params.MaxWindow()+1)
	rawQueue := make([]motion.Motion, 0, p.cfg.Params.MaxWindow()+1)
	zoom := p.cfg.Prezoom
	frameIdx := 0
	outputIdx := 0

	emit := func(corr motion.Motion, sceneCut bool) error {
		f := queue[0]
		queue = queue[1:]
		raw := rawQueue[0]
		rawQueue = rawQueue[1:]

		if dynamicAutozoom {
			decrement := zoom * (1 - 1/p.cfg.ZoomSpeed)
			zoom = planner.PlanOnePass(corr, float64(workW), float64(workH), zoom, planner.Config{
				Prezoom: p.cfg.Prezoom, ZoomDecrement: decrement,
			})
		} else {
			zoom = p.cfg.Prezoom
		}

		warper.Apply(f, corr, zoom, float64(workW), float64(workH))
		if p.cfg.DebugImprint {
			if err := debugreport.Imprint(f, outputIdx, raw, corr, zoom); err != nil {
				p.log.WithError(err).Debug("debug imprint failed")
			}
		}
		if p.report != nil {
			p.report.Append(outputIdx, raw, corr, zoom, sceneCut)
		}
		outputIdx++
		return enc.Write(f)
	}

	for {
		f, err := dec.Next()
		if err != nil {
			if err := drainDecodeErr(err); err != nil {
				enc.Close()
				dec.Close()
				return fmt.Errorf("decode frame %d: %w", frameIdx, err)
			}
			break
		}

		raw := processFrame(prov, est, f, &workBuf)
		if raw.IsSceneCut() {
			p.log.WithField("frame", frameIdx).Debug("scene cut detected")
		}
		queue = append(queue, f)
		rawQueue = append(rawQueue, raw)

		corrections, sceneCut := sm.Process(raw)
		for _, corr := range corrections {
			if err := emit(corr, sceneCut); err != nil {
				enc.Close()
				dec.Close()
				return fmt.Errorf("encode frame %d: %w", outputIdx, err)
			}
		}
		// The flush batch above still belongs to the outgoing segment, so
		// every one of its corrections gets PlanOnePass's normal
		// rate-limited continuity zoom. Only the *next* segment starts at
		// the floor.
		if sceneCut && dynamicAutozoom {
			zoom = p.cfg.Prezoom
		}
		frameIdx++
	}

	for _, corr := range sm.Flush() {
		if err := emit(corr, false); err != nil {
			enc.Close()
			dec.Close()
			return fmt.Errorf("encode frame %d: %w", outputIdx, err)
		}
	}

	if err := enc.Close(); err != nil {
		dec.Close()
		return err
	}
	return dec.Close()
}
