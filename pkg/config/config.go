// Package config provides configuration defaults and YAML file loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec identifies an output video codec/container pair.
type Codec string

const (
	// CodecMJPEG writes Motion-JPEG in an AVI container.
	CodecMJPEG Codec = "mjpeg"
	// CodecAV1 writes AV1 in an MP4 container.
	CodecAV1 Codec = "av1"
)

// ParseCodec validates a codec name.
func ParseCodec(s string) (Codec, error) {
	switch Codec(strings.ToLower(s)) {
	case CodecMJPEG:
		return CodecMJPEG, nil
	case CodecAV1:
		return CodecAV1, nil
	default:
		return "", fmt.Errorf("unknown codec %q (expected mjpeg or av1)", s)
	}
}

// Config is the full stillcam configuration, loadable from a YAML file.
// Timeouts are in seconds to match the camera-facing HTTP contract.
type Config struct {
	View   ViewConfig   `yaml:"view"`
	Record RecordConfig `yaml:"record"`
}

// ViewConfig configures the live viewer.
type ViewConfig struct {
	URL               string            `yaml:"url"`
	TargetFPS         float64           `yaml:"target_fps"`
	Title             string            `yaml:"title"`
	ShowFPS           bool              `yaml:"show_fps"`
	ResizeWidth       int               `yaml:"resize_width"`
	ConnectTimeoutSec float64           `yaml:"connect_timeout"`
	ReadTimeoutSec    float64           `yaml:"read_timeout"`
	Headers           map[string]string `yaml:"headers"`
}

// RecordConfig configures the fixed-cadence recorder.
type RecordConfig struct {
	URL        string            `yaml:"url"`
	OutputPath string            `yaml:"output"`
	FPS        float64           `yaml:"fps"`
	Seconds    float64           `yaml:"seconds"`
	Codec      string            `yaml:"codec"`
	TimeoutSec float64           `yaml:"timeout"`
	Resize     string            `yaml:"resize"`
	Quality    int               `yaml:"quality"`
	Bitrate    int               `yaml:"bitrate"`
	Summary    string            `yaml:"summary"`
	Headers    map[string]string `yaml:"headers"`
}

// Defaults returns a Config with default values, matching the ESP32-CAM
// access-point defaults the tool was built around.
func Defaults() Config {
	return Config{
		View: ViewConfig{
			URL:               "http://192.168.4.1/capture.jpg",
			TargetFPS:         20.0,
			Title:             "IP Camera",
			ConnectTimeoutSec: 0.5,
			ReadTimeoutSec:    1.0,
		},
		Record: RecordConfig{
			URL:        "http://192.168.4.1/capture.jpg",
			OutputPath: "capture.avi",
			FPS:        10.0,
			Seconds:    30.0,
			Codec:      string(CodecMJPEG),
			TimeoutSec: 1.5,
			Quality:    80,
		},
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseSize parses a "WxH" string like "1280x720".
func ParseSize(s string) (width, height int, err error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("size must be WxH, e.g. 1280x720, got %q", s)
	}
	width, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	height, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %q", s)
	}
	return width, height, nil
}

// ParseHeaders parses repeated "key=value" flags into a header map.
func ParseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("header must be key=value, got %q", p)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}
