package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/filter"
	"github.com/opd-ai/vfgraph/av/video"
)

// pipeline moves frames from a reader through a filter chain to a writer on
// a single goroutine.
type pipeline struct {
	width  int
	height int
	format video.PixelFormat

	graph filter.Filter
	chain *filter.Chain
	stats filter.Statistics
	timer frameTimer
	log   *logrus.Entry

	// setOptions installs a reloaded description on the graph filter.
	setOptions func(string) bool
}

func newPipeline(width, height int, format video.PixelFormat, graph graphFilter, log *logrus.Entry) *pipeline {
	return &pipeline{
		width:      width,
		height:     height,
		format:     format,
		graph:      graph,
		chain:      filter.NewChain(graph),
		log:        log,
		setOptions: graph.SetOptions,
	}
}

// run processes frames until r is exhausted or ctx is cancelled. Pending
// descriptions on reloads are applied between frames.
func (p *pipeline) run(ctx context.Context, r io.Reader, w io.Writer, reloads <-chan string) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	err := p.loop(ctx, br, bw, reloads)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("flush output: %w", ferr)
	}
	return err
}

func (p *pipeline) loop(ctx context.Context, r io.Reader, w io.Writer, reloads <-chan string) error {
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.drainReloads(reloads)

		frame, err := video.NewVideoFrame(p.width, p.height, p.format)
		if err != nil {
			return err
		}
		if err := readFrame(r, frame); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read frame %d: %w", index, err)
		}

		start := time.Now()
		p.chain.Process(&p.stats, frame)
		p.timer.observe(time.Since(start))

		if err := writeFrame(w, frame); err != nil {
			return fmt.Errorf("write frame %d: %w", index, err)
		}
	}
}

// drainReloads applies every description queued on reloads without
// blocking. Only the last one matters.
func (p *pipeline) drainReloads(reloads <-chan string) {
	for {
		select {
		case text, ok := <-reloads:
			if !ok {
				return
			}
			p.setOptions(text)
			p.log.WithFields(logrus.Fields{
				"function":    "pipeline.drainReloads",
				"description": text,
				"frame":       p.stats.FramesIn,
			}).Info("Filter description reloaded")
		default:
			return
		}
	}
}

// close releases the chain and logs the final statistics.
func (p *pipeline) close() error {
	p.log.WithFields(p.timer.fields()).WithFields(logrus.Fields{
		"function":              "pipeline.close",
		"frames_in":             p.stats.FramesIn,
		"frames_filtered":       p.stats.FramesFiltered,
		"frames_passed_through": p.stats.FramesPassedThrough,
		"filters_skipped":       p.stats.FiltersSkipped,
		"status":                p.graph.Status().String(),
	}).Info("Pipeline finished")

	return p.chain.Close()
}
