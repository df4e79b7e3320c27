package av1sink

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

// buildMP4 wraps the encoded AV1 frames in a fragmented MP4. All samples
// share one duration because the recorder emits at a fixed cadence.
func (s *Sink) buildMP4() ([]byte, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("no frames encoded")
	}

	// Timebase 1/(fps*1000): every sample lasts exactly 1000 units.
	timescale := uint32(s.fps * 1000)
	const sampleDur = 1000
	trackID := uint32(1)

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")

	trak := init.Moov.Trak

	av1C, err := codecConfig(s.frames)
	if err != nil {
		return nil, err
	}
	av01 := mp4.CreateVisualSampleEntryBox("av01", uint16(s.width), uint16(s.height), av1C)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(av01)

	trak.Tkhd.Width = mp4.Fixed32(s.width << 16)
	trak.Tkhd.Height = mp4.Fixed32(s.height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	for i, frame := range s.frames {
		flags := mp4.NonSyncSampleFlags
		if frame.isKeyframe {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(frame.data)),
				Dur:   sampleDur,
			},
			DecodeTime: uint64(i) * sampleDur,
			Data:       frame.data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "av01", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}

	return buf.Bytes(), nil
}

// codecConfig builds the Av1C box from the first keyframe's sequence header.
func codecConfig(frames []encodedFrame) (*mp4.Av1CBox, error) {
	var seqHdr []byte
	for _, f := range frames {
		if f.isKeyframe && len(f.data) > 0 {
			seqHdr = extractSequenceHeader(f.data)
			break
		}
	}
	if seqHdr == nil {
		return nil, fmt.Errorf("no sequence header found in bitstream")
	}

	return &mp4.Av1CBox{
		CodecConfRec: av1.CodecConfRec{
			Version:              1,
			SeqProfile:           0,
			SeqLevelIdx0:         8, // Level 4.0
			SeqTier0:             0,
			HighBitdepth:         0,
			TwelveBit:            0,
			MonoChrome:           0,
			ChromaSubsamplingX:   1, // 4:2:0
			ChromaSubsamplingY:   1,
			ChromaSamplePosition: 0,
			ConfigOBUs:           seqHdr,
		},
	}, nil
}

// extractSequenceHeader scans OBUs for the sequence header (type 1) and
// returns it with its header bytes included.
func extractSequenceHeader(data []byte) []byte {
	if len(data) < 2 {
		return nil
	}

	offset := 0
	for offset < len(data) {
		header := data[offset]
		obuType := (header >> 3) & 0x0F
		hasExtension := (header >> 2) & 0x01
		hasSizeField := (header >> 1) & 0x01

		offset++
		if hasExtension == 1 && offset < len(data) {
			offset++
		}

		var obuSize int
		if hasSizeField == 1 {
			obuSize, offset = readLeb128(data, offset)
		} else {
			obuSize = len(data) - offset
		}

		if obuType == 1 {
			startOffset := offset - 1
			if hasExtension == 1 {
				startOffset--
			}
			endOffset := offset + obuSize
			if endOffset > len(data) {
				endOffset = len(data)
			}
			return data[startOffset:endOffset]
		}

		offset += obuSize
	}

	return nil
}

// readLeb128 reads a LEB128 encoded value.
func readLeb128(data []byte, offset int) (int, int) {
	value := 0
	for i := 0; i < 8 && offset < len(data); i++ {
		b := data[offset]
		offset++
		value |= int(b&0x7F) << (i * 7)
		if b&0x80 == 0 {
			break
		}
	}
	return value, offset
}
