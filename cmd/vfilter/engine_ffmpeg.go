//go:build ffmpeg

package main

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/lavfi"
)

const engineName = "ffmpeg"

func newEngine(desc string, log *logrus.Entry) graphFilter {
	return lavfi.NewGraphFilter(lavfi.WithDescription(desc), lavfi.WithLogger(log))
}
