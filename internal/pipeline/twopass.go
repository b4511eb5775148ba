package pipeline

import (
	"context"
	"fmt"

	"github.com/ivlev/stabilize/internal/container"
	"github.com/ivlev/stabilize/internal/debugreport"
	"github.com/ivlev/stabilize/internal/estimator"
	"github.com/ivlev/stabilize/internal/motion"
	"github.com/ivlev/stabilize/internal/planner"
	"github.com/ivlev/stabilize/internal/provider"
	"github.com/ivlev/stabilize/internal/smoother"
	"github.com/ivlev/stabilize/internal/warp"
)

// runTwoPass is the two-pass autozoom mode: pass 1 decodes the whole
// stream to collect every frame's raw motion and smoothed correction,
// split into scene-cut-free segments; planner.PlanTwoPass then picks a
// re-centered correction and zoom for every frame before pass 2 restarts
// the decoder and actually warps and encodes.
func (p *Pipeline) runTwoPass(ctx context.Context, inputPath, outputPath string, info container.Info, downscale, workW, workH int, ignore []motion.IgnoreRect) error {
	dec, err := container.NewDecoder(ctx, inputPath, info, p.pool, p.log)
	if err != nil {
		return err
	}

	prov := provider.New(downscale)
	est := estimator.New(p.cfg.Params, ignore)
	sm := smoother.New(p.cfg.Params)

	var workBuf *motion.WorkFrame
	var rawSegments, corrSegments [][]motion.Motion
	var rawCurrent, corrCurrent []motion.Motion
	var pendingRaw []motion.Motion

	frameIdx := 0
	for {
		f, err := dec.Next()
		if err != nil {
			if derr := drainDecodeErr(err); derr != nil {
				dec.Close()
				return fmt.Errorf("pass 1 decode frame %d: %w", frameIdx, derr)
			}
			break
		}

		raw := processFrame(prov, est, f, &workBuf)
		if raw.IsSceneCut() {
			p.log.WithField("frame", frameIdx).Debug("scene cut detected")
		}
		p.pool.Put(f)
		pendingRaw = append(pendingRaw, raw)

		corrections, sceneCut := sm.Process(raw)
		for i, corr := range corrections {
			corrCurrent = append(corrCurrent, corr)
			rawCurrent = append(rawCurrent, pendingRaw[i])
		}
		pendingRaw = pendingRaw[len(corrections):]

		if sceneCut {
			rawSegments = append(rawSegments, rawCurrent)
			corrSegments = append(corrSegments, corrCurrent)
			rawCurrent, corrCurrent = nil, nil
		}
		frameIdx++
	}

	for i, corr := range sm.Flush() {
		corrCurrent = append(corrCurrent, corr)
		rawCurrent = append(rawCurrent, pendingRaw[i])
	}
	rawSegments = append(rawSegments, rawCurrent)
	corrSegments = append(corrSegments, corrCurrent)

	planned := planner.PlanTwoPass(corrSegments, float64(workW), float64(workH), planner.Config{
		Prezoom: p.cfg.Prezoom, ZoomSpeed: p.cfg.ZoomSpeed,
	})

	if err := dec.Restart(); err != nil {
		dec.Close()
		return fmt.Errorf("restart decoder for pass 2: %w", err)
	}
	enc, err := container.NewEncoder(ctx, outputPath, info, p.encoderOptions(info), p.pool, p.log)
	if err != nil {
		dec.Close()
		return err
	}

	warper := warp.New()
	outputIdx := 0
	for segIdx, frames := range planned {
		for i, pf := range frames {
			f, err := dec.Next()
			if err != nil {
				enc.Close()
				dec.Close()
				return fmt.Errorf("pass 2 decode frame %d: %w", outputIdx, drainDecodeErr(err))
			}

			warper.Apply(f, pf.Correction, pf.Zoom, float64(workW), float64(workH))
			raw := rawSegments[segIdx][i]
			sceneCut := i == 0 && segIdx > 0
			if p.cfg.DebugImprint {
				if err := debugreport.Imprint(f, outputIdx, raw, pf.Correction, pf.Zoom); err != nil {
					p.log.WithError(err).Debug("debug imprint failed")
				}
			}
			if p.report != nil {
				p.report.Append(outputIdx, raw, pf.Correction, pf.Zoom, sceneCut)
			}
			outputIdx++

			if err := enc.Write(f); err != nil {
				dec.Close()
				return fmt.Errorf("pass 2 encode frame %d: %w", outputIdx, err)
			}
		}
	}

	if err := enc.Close(); err != nil {
		dec.Close()
		return err
	}
	return dec.Close()
}
