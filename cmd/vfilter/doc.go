// Package main provides vfilter, a command-line tool that runs raw planar
// video through a filter graph.
//
// Frames are read back to back from the input, each holding every plane of
// the configured geometry tightly packed, and written to the output in the
// same layout at whatever size the graph produces:
//
//	ffmpeg -i in.mp4 -f rawvideo -pix_fmt yuv420p - |
//	  vfilter -size 640x480 -vf 'scale=iw/2:ih/2,hflip' > out.yuv
//
// With -vf-script the description is read from a file that is watched for
// changes; an edit takes effect from the next frame on. Statistics are
// reported when the input ends.
package main
