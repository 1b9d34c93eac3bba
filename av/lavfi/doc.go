// Package lavfi runs filter descriptions through FFmpeg's libavfilter via
// go-astiav.
//
// The package is built only with the "ffmpeg" build tag, which requires the
// FFmpeg development libraries:
//
//	go build -tags ffmpeg ./...
//
// GraphFilter has the same lifecycle and failure policy as
// filter.GraphFilter and can replace it in a filter.Chain. C frames cannot
// alias Go memory, so pushing a frame copies its planes into an FFmpeg
// buffer owned by the input descriptor.
package lavfi
