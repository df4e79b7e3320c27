// Package av1sink implements ports.VideoSink as an AV1 stream in an MP4
// container, encoding with libaom.
package av1sink

/*
#cgo !windows pkg-config: aom
#cgo windows CFLAGS: -IC:/vcpkg/installed/x64-windows-static/include
#cgo windows LDFLAGS: -LC:/vcpkg/installed/x64-windows-static/lib -laom -static -lpthread
#include <aom/aom_encoder.h>
#include <aom/aomcx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* av1_iface() {
    return aom_codec_av1_cx();
}

// aom_codec_enc_init is a macro; wrap it for cgo.
static aom_codec_err_t enc_init(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface,
                                aom_codec_enc_cfg_t *cfg, aom_codec_flags_t flags) {
    return aom_codec_enc_init_ver(ctx, iface, cfg, flags, AOM_ENCODER_ABI_VERSION);
}

static int pkt_is_frame(const aom_codec_cx_pkt_t *pkt) {
    return pkt->kind == AOM_CODEC_CX_FRAME_PKT;
}

static void* pkt_buf(const aom_codec_cx_pkt_t *pkt) {
    return pkt->data.frame.buf;
}

static size_t pkt_size(const aom_codec_cx_pkt_t *pkt) {
    return pkt->data.frame.sz;
}

static int pkt_is_keyframe(const aom_codec_cx_pkt_t *pkt) {
    return (pkt->data.frame.flags & AOM_FRAME_IS_KEY) != 0;
}

static void put_pixel(aom_image_t *img, int plane, int idx, unsigned char val) {
    img->planes[plane][idx] = val;
}

static int plane_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

// aom_codec_control is a variadic macro; wrap it for cgo.
static aom_codec_err_t set_cpu_used(aom_codec_ctx_t *ctx, int value) {
    return aom_codec_control(ctx, AOME_SET_CPUUSED, value);
}
*/
import "C"

import (
	"fmt"
	"image"
	"image/draw"
	"unsafe"

	"github.com/user/stillcam/pkg/ports"
)

// Options tunes the encoder.
type Options struct {
	// Quality is a CQ value (0-63, lower is higher quality; 0 = default).
	Quality int
	// Bitrate is the target bitrate in kbps (0 = derived from resolution).
	Bitrate int
}

// Sink encodes appended frames to AV1 and writes an MP4 on Close. Frames
// are spaced at exactly 1/fps apart in the container, matching the
// recorder's fixed cadence.
type Sink struct {
	codec    *C.aom_codec_ctx_t
	cfg      *C.aom_codec_enc_cfg_t
	rawFrame *C.aom_image_t

	path   string
	width  int
	height int
	fps    float64
	opts   Options
	fs     ports.FileSystem

	frames     []encodedFrame
	frameCount int
	closed     bool
}

type encodedFrame struct {
	data       []byte
	isKeyframe bool
}

// New creates a Sink writing through fs.
func New(fs ports.FileSystem, opts Options) *Sink {
	return &Sink{fs: fs, opts: opts}
}

// Open initializes the libaom encoder for the given dimensions and rate.
func (s *Sink) Open(path string, width, height int, fps float64) error {
	if s.codec != nil {
		return fmt.Errorf("sink already open")
	}
	s.path = path
	s.width = width
	s.height = height
	s.fps = fps
	s.frames = nil
	s.frameCount = 0

	s.codec = (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if s.codec == nil {
		return fmt.Errorf("allocate codec context")
	}
	C.memset(unsafe.Pointer(s.codec), 0, C.sizeof_aom_codec_ctx_t)

	s.cfg = (*C.aom_codec_enc_cfg_t)(C.malloc(C.sizeof_aom_codec_enc_cfg_t))
	if s.cfg == nil {
		s.cleanup()
		return fmt.Errorf("allocate encoder config")
	}

	iface := C.av1_iface()
	if res := C.aom_codec_enc_config_default(iface, s.cfg, 0); res != C.AOM_CODEC_OK {
		s.cleanup()
		return fmt.Errorf("default encoder config: %d", res)
	}

	s.cfg.g_w = C.uint(width)
	s.cfg.g_h = C.uint(height)
	s.cfg.g_timebase.num = 1
	s.cfg.g_timebase.den = C.int(fps * 1000)
	s.cfg.g_error_resilient = 0
	s.cfg.g_threads = 4
	s.cfg.g_usage = C.AOM_USAGE_REALTIME

	if s.opts.Bitrate > 0 {
		s.cfg.rc_target_bitrate = C.uint(s.opts.Bitrate)
	} else {
		s.cfg.rc_target_bitrate = C.uint(width * height / 1000)
	}

	s.cfg.rc_end_usage = C.AOM_CQ
	if s.opts.Quality > 0 && s.opts.Quality <= 63 {
		s.cfg.rc_min_quantizer = C.uint(s.opts.Quality)
		s.cfg.rc_max_quantizer = C.uint(s.opts.Quality + 10)
		if s.cfg.rc_max_quantizer > 63 {
			s.cfg.rc_max_quantizer = 63
		}
	}

	if res := C.enc_init(s.codec, iface, s.cfg, 0); res != C.AOM_CODEC_OK {
		s.cleanup()
		return fmt.Errorf("initialize encoder: %d", res)
	}

	// Realtime speed preset; still frames from a camera do not reward
	// slower presets.
	C.set_cpu_used(s.codec, 8)

	s.rawFrame = (*C.aom_image_t)(C.malloc(C.sizeof_aom_image_t))
	if s.rawFrame == nil {
		s.cleanup()
		return fmt.Errorf("allocate raw frame")
	}
	if C.aom_img_alloc(s.rawFrame, C.AOM_IMG_FMT_I420, C.uint(width), C.uint(height), 32) == nil {
		C.free(unsafe.Pointer(s.rawFrame))
		s.rawFrame = nil
		s.cleanup()
		return fmt.Errorf("allocate image buffer")
	}

	return nil
}

// Append encodes the next frame at the fixed cadence position.
func (s *Sink) Append(img image.Image) error {
	if s.codec == nil || s.closed {
		return fmt.Errorf("sink not open")
	}
	bounds := img.Bounds()
	if bounds.Dx() != s.width || bounds.Dy() != s.height {
		return fmt.Errorf("frame is %dx%d, sink expects %dx%d",
			bounds.Dx(), bounds.Dy(), s.width, s.height)
	}

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	s.rgbaToYUV420(rgba)

	// With timebase 1/(fps*1000), frame i sits at pts i*1000.
	pts := C.aom_codec_pts_t(s.frameCount * 1000)

	flags := C.aom_enc_frame_flags_t(0)
	if s.frameCount == 0 {
		flags = C.AOM_EFLAG_FORCE_KF
	}

	if res := C.aom_codec_encode(s.codec, s.rawFrame, pts, 1000, flags); res != C.AOM_CODEC_OK {
		return fmt.Errorf("encode frame %d: %d", s.frameCount, res)
	}
	s.drainPackets()

	s.frameCount++
	return nil
}

// Close flushes the encoder, builds the MP4 container and writes the file.
func (s *Sink) Close() error {
	if s.codec == nil || s.closed {
		return nil
	}
	s.closed = true

	if res := C.aom_codec_encode(s.codec, nil, 0, 1000, 0); res != C.AOM_CODEC_OK {
		s.cleanup()
		return fmt.Errorf("flush encoder: %d", res)
	}
	s.drainPackets()

	data, err := s.buildMP4()
	s.cleanup()
	if err != nil {
		return fmt.Errorf("build mp4: %w", err)
	}

	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// drainPackets collects all pending compressed frames from the encoder.
func (s *Sink) drainPackets() {
	var iter C.aom_codec_iter_t
	for {
		pkt := C.aom_codec_get_cx_data(s.codec, &iter)
		if pkt == nil {
			return
		}
		if C.pkt_is_frame(pkt) == 0 {
			continue
		}
		s.frames = append(s.frames, encodedFrame{
			data:       C.GoBytes(C.pkt_buf(pkt), C.int(C.pkt_size(pkt))),
			isKeyframe: C.pkt_is_keyframe(pkt) != 0,
		})
	}
}

func (s *Sink) cleanup() {
	if s.rawFrame != nil {
		C.aom_img_free(s.rawFrame)
		C.free(unsafe.Pointer(s.rawFrame))
		s.rawFrame = nil
	}
	if s.codec != nil {
		C.aom_codec_destroy(s.codec)
		C.free(unsafe.Pointer(s.codec))
		s.codec = nil
	}
	if s.cfg != nil {
		C.free(unsafe.Pointer(s.cfg))
		s.cfg = nil
	}
}

// rgbaToYUV420 converts an RGBA frame into the encoder's I420 buffer.
func (s *Sink) rgbaToYUV420(rgba *image.RGBA) {
	width := s.width
	height := s.height

	yStride := int(C.plane_stride(s.rawFrame, 0))
	uStride := int(C.plane_stride(s.rawFrame, 1))
	vStride := int(C.plane_stride(s.rawFrame, 2))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*rgba.Stride + x*4
			r := int(rgba.Pix[idx])
			g := int(rgba.Pix[idx+1])
			b := int(rgba.Pix[idx+2])

			yVal := ((66*r + 129*g + 25*b + 128) >> 8) + 16
			if yVal > 255 {
				yVal = 255
			}
			if yVal < 0 {
				yVal = 0
			}
			C.put_pixel(s.rawFrame, 0, C.int(y*yStride+x), C.uchar(yVal))

			if y%2 == 0 && x%2 == 0 {
				uIdx := (y/2)*uStride + (x / 2)
				vIdx := (y/2)*vStride + (x / 2)

				uVal := ((-38*r - 74*g + 112*b + 128) >> 8) + 128
				vVal := ((112*r - 94*g - 18*b + 128) >> 8) + 128

				if uVal > 255 {
					uVal = 255
				}
				if uVal < 0 {
					uVal = 0
				}
				if vVal > 255 {
					vVal = 255
				}
				if vVal < 0 {
					vVal = 0
				}

				C.put_pixel(s.rawFrame, 1, C.int(uIdx), C.uchar(uVal))
				C.put_pixel(s.rawFrame, 2, C.int(vIdx), C.uchar(vVal))
			}
		}
	}
}

// Ensure Sink implements ports.VideoSink
var _ ports.VideoSink = (*Sink)(nil)
