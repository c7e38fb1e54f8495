package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"soundscope/internal/buffer"
)

// ExportWAV writes the loaded, peak-normalized buffer to path as integer
// PCM WAV. bitDepth is 16, 24 or 32.
func (e *Engine) ExportWAV(path string, bitDepth int) error {
	buf, err := e.Buffer()
	if err != nil {
		return err
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("export: unsupported bit depth %d", bitDepth)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(file, buf.SampleRate(), bitDepth, buf.ChannelCount(), 1)
	if err := writeFrames(enc, buf, bitDepth, e.config.Playback.FramesPerBuffer); err != nil {
		enc.Close()
		file.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return fmt.Errorf("export: %w", err)
	}
	return file.Close()
}

// writeFrames interleaves buf in blocks of chunk frames through one reusable
// IntBuffer.
func writeFrames(enc *wav.Encoder, buf *buffer.SampleBuffer, bitDepth, chunk int) error {
	channels := buf.ChannelCount()
	src := make([][]float64, channels)
	for c := range src {
		src[c], _ = buf.Channel(c)
	}
	chunk = max(chunk, 1)
	scale := math.Exp2(float64(bitDepth-1)) - 1

	sampleBuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: buf.SampleRate()},
		Data:           make([]int, chunk*channels),
		SourceBitDepth: bitDepth,
	}
	for start := 0; start < buf.Frames(); start += chunk {
		end := min(start+chunk, buf.Frames())
		data := sampleBuf.Data[:(end-start)*channels]
		i := 0
		for f := start; f < end; f++ {
			for c := 0; c < channels; c++ {
				data[i] = int(math.Round(src[c][f] * scale))
				i++
			}
		}
		sampleBuf.Data = data
		if err := enc.Write(sampleBuf); err != nil {
			return err
		}
		sampleBuf.Data = sampleBuf.Data[:cap(sampleBuf.Data)]
	}
	return nil
}
