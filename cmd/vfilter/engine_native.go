//go:build !ffmpeg

package main

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/filter"
)

const engineName = "native"

func newEngine(desc string, log *logrus.Entry) graphFilter {
	return filter.NewGraphFilter(filter.WithDescription(desc), filter.WithLogger(log))
}
