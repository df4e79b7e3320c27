package av1sink

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/stillcam/pkg/mocks"
	"github.com/user/stillcam/pkg/ports"
)

func TestNew(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{})
	if sink == nil {
		t.Fatal("expected sink to be created")
	}
}

func TestSink_Open(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{Quality: 30, Bitrate: 1000})

	err := sink.Open("out.mp4", 128, 128, 30.0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Cleanup
	sink.cleanup()
}

func TestSink_OpenTwice(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{Quality: 40})

	if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sink.cleanup()

	if err := sink.Open("again.mp4", 64, 64, 30.0); err == nil {
		t.Error("expected error opening an already open sink")
	}
}

func TestSink_AppendBeforeOpen(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{})

	img := createTestImage(64, 64, color.RGBA{R: 255, A: 255})
	if err := sink.Append(img); err == nil {
		t.Error("expected error appending to unopened sink")
	}
}

func TestSink_RejectsWrongDimensions(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{Quality: 40})

	if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sink.cleanup()

	img := createTestImage(32, 32, color.RGBA{R: 255, A: 255})
	if err := sink.Append(img); err == nil {
		t.Error("expected error for mismatched frame size")
	}
	if sink.frameCount != 0 {
		t.Errorf("rejected frame must not count, got %d", sink.frameCount)
	}
}

func TestSink_AppendFrames(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{Quality: 40})

	if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sink.cleanup()

	colors := []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255},   // Red
		{R: 0, G: 255, B: 0, A: 255},   // Green
		{R: 0, G: 0, B: 255, A: 255},   // Blue
		{R: 255, G: 255, B: 0, A: 255}, // Yellow
		{R: 255, G: 0, B: 255, A: 255}, // Magenta
	}

	for i, c := range colors {
		img := createTestImage(64, 64, c)
		if err := sink.Append(img); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	if sink.frameCount != 5 {
		t.Errorf("expected frameCount 5, got %d", sink.frameCount)
	}
}

func TestSink_CloseWritesMP4(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(fs, Options{Quality: 40})

	if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		img := createTestImage(64, 64, color.RGBA{
			R: uint8(i * 50),
			G: uint8(255 - i*50),
			B: 128,
			A: 255,
		})
		if err := sink.Append(img); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := fs.ReadFile("out.mp4")
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if len(data) < 8 {
		t.Fatal("MP4 data too short")
	}

	// MP4 files start with an ftyp box
	if sig := string(data[4:8]); sig != "ftyp" {
		t.Errorf("expected ftyp signature, got %q", sig)
	}
}

func TestSink_CloseWithoutFrames(t *testing.T) {
	sink := New(mocks.NewFileSystem(), Options{})

	if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := sink.Close(); err == nil {
		t.Error("expected error closing without frames")
	}
}

func TestSink_CloseIdempotent(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(fs, Options{Quality: 40})

	if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	img := createTestImage(64, 64, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	if err := sink.Append(img); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if err := sink.Append(img); err == nil {
		t.Error("expected error appending after close")
	}
}

func TestSink_DifferentResolutions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small", 64, 64},
		{"medium", 256, 256},
		{"wide", 320, 180},
		{"tall", 180, 320},
		{"vga", 640, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFileSystem()
			sink := New(fs, Options{Quality: 45})

			if err := sink.Open("out.mp4", tt.width, tt.height, 30.0); err != nil {
				t.Fatalf("Open failed: %v", err)
			}

			img := createTestImage(tt.width, tt.height, color.RGBA{R: 100, G: 150, B: 200, A: 255})
			if err := sink.Append(img); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			if err := sink.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			data, err := fs.ReadFile("out.mp4")
			if err != nil {
				t.Fatalf("output file not written: %v", err)
			}
			if len(data) == 0 {
				t.Error("expected non-empty MP4 data")
			}
		})
	}
}

func TestSink_QualitySettings(t *testing.T) {
	tests := []struct {
		name    string
		quality int
	}{
		{"high quality", 20},
		{"medium quality", 35},
		{"low quality", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewFileSystem()
			sink := New(fs, Options{Quality: tt.quality})

			if err := sink.Open("out.mp4", 64, 64, 30.0); err != nil {
				t.Fatalf("Open failed: %v", err)
			}

			img := createTestImage(64, 64, color.RGBA{R: 128, G: 128, B: 128, A: 255})
			if err := sink.Append(img); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			if err := sink.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			data, err := fs.ReadFile("out.mp4")
			if err != nil {
				t.Fatalf("output file not written: %v", err)
			}
			if len(data) == 0 {
				t.Error("expected non-empty MP4 data")
			}
		})
	}
}

func TestSink_ImplementsInterface(t *testing.T) {
	var _ ports.VideoSink = (*Sink)(nil)
}

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// Benchmark tests
func BenchmarkSink_Append(b *testing.B) {
	sink := New(mocks.NewFileSystem(), Options{Quality: 40})
	if err := sink.Open("out.mp4", 256, 256, 30.0); err != nil {
		b.Fatalf("Open failed: %v", err)
	}
	defer sink.cleanup()

	img := createTestImage(256, 256, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := sink.Append(img); err != nil {
			b.Fatalf("Append failed: %v", err)
		}
	}
}
