// Package video provides planar video frames and the pixel operations the
// filter graph is built from.
//
// # Frames
//
// A VideoFrame holds up to MaxPlanes planes of 8-bit samples. Plane i is
// Data[i] with rows Linesize[i] bytes apart; chroma planes are subsampled as
// described by the frame's PixelFormat:
//
//	frame, err := video.NewVideoFrame(640, 480, video.PixelFormatYUV420P)
//	if err != nil {
//	    return err
//	}
//	y := frame.Plane(0) // 640x480
//	u := frame.Plane(1) // 320x240
//
// A frame assembled by hand may point into memory owned by someone else.
// Clone it before keeping it.
//
// # Pixel Formats
//
// Format numbers follow the FFmpeg pixel format enumeration, so a format can
// be passed to a graph as "pix_fmt=0" or "pix_fmt=yuv420p". Only 8-bit
// planar YUV and gray formats are supported.
//
// # Scaling
//
// Scaler resizes frames or single planes with bilinear, nearest neighbour,
// bicubic or area kernels, selected by their FFmpeg flag names:
//
//	scaler := video.NewScaler(video.ScaleBilinear)
//	half, err := scaler.Scale(frame, 320, 240)
//
// # Effects
//
// LUT, BoxBlurPlane and SharpenPlane operate on one PlaneView at a time and
// are the building blocks of the eq, negate, boxblur and unsharp filters.
package video
