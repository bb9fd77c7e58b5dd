package signal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/faiface/beep"
	beepwav "github.com/faiface/beep/wav"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

var (
	// ErrEmptyFile is returned when an audio file decodes to zero samples.
	ErrEmptyFile = errors.New("audio file contains no samples")
	// ErrTooManyChannels is returned for inputs with more than two channels.
	ErrTooManyChannels = errors.New("audio file has more than two channels")
	// ErrUnsupportedEncoding is returned for sample encodings the loader
	// cannot scale, such as 64-bit float or companded wav data.
	ErrUnsupportedEncoding = errors.New("unsupported sample encoding")
)

// MaxChannels is the widest input the loaders accept.
const MaxChannels = 2

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xfffe
)

// LoadWav loads a wav file, averaging both channels of a stereo file.
func LoadWav(inputFile string) (*Signal, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()
	return DecodeWav(file)
}

// DecodeWav reads a mono or stereo wav stream of 8, 16, 24 or 32-bit
// integer or 32-bit float samples. Stereo is averaged to mono and every
// encoding is scaled so that full scale reads as 1.
func DecodeWav(r io.Reader) (*Signal, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read wav: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	decoder := wav.NewDecoder(rs)
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, fmt.Errorf("decode wav: %w", err)
		}
		return nil, fmt.Errorf("decode wav: %w", ErrEmptyFile)
	}
	channels := int(decoder.NumChans)
	if channels > MaxChannels {
		return nil, fmt.Errorf("decode wav: %d channels: %w", channels, ErrTooManyChannels)
	}
	sample, err := wavSampleFunc(decoder.WavAudioFormat, int(decoder.BitDepth))
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	out := make([]float64, len(buf.Data)/channels)
	for i := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += sample(buf.Data[i*channels+c])
		}
		out[i] = sum / float64(channels)
	}
	if len(out) == 0 {
		return nil, ErrEmptyFile
	}
	return New(out, int(decoder.SampleRate))
}

// wavSampleFunc returns the scaling from a decoded wav sample to [-1, 1].
func wavSampleFunc(format uint16, bitDepth int) (func(int) float64, error) {
	switch {
	case format == wavFormatFloat && bitDepth == 32:
		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(int32(v))))
		}, nil
	case format != wavFormatPCM && format != wavFormatExtensible:
		return nil, fmt.Errorf("decode wav: format %d: %w", format, ErrUnsupportedEncoding)
	case bitDepth == 8:
		// 8-bit wav data is unsigned.
		return func(v int) float64 {
			return float64(v-128) / 128
		}, nil
	case bitDepth == 16 || bitDepth == 24 || bitDepth == 32:
		scale := float64(audio.IntMaxSignedValue(bitDepth)) + 1
		return func(v int) float64 {
			return float64(v) / scale
		}, nil
	default:
		return nil, fmt.Errorf("decode wav: %d-bit samples: %w", bitDepth, ErrUnsupportedEncoding)
	}
}

// LoadFlac loads a flac file, averaging both channels of a stereo file.
func LoadFlac(inputFile string) (*Signal, error) {
	stream, err := flac.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("open flac: %w", err)
	}
	defer stream.Close()
	if channels := int(stream.Info.NChannels); channels > MaxChannels {
		return nil, fmt.Errorf("decode flac: %d channels: %w", channels, ErrTooManyChannels)
	}

	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))
	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode flac: %w", err)
		}
		channels := len(frame.Subframes)
		if channels == 0 {
			continue
		}
		for i := range frame.Subframes[0].Samples {
			var sum float64
			for _, sub := range frame.Subframes {
				sum += float64(sub.Samples[i])
			}
			out = append(out, sum/float64(channels)/scale)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyFile
	}
	return New(out, int(stream.Info.SampleRate))
}

// SaveWav writes the signal as a 16-bit mono wav file. Samples outside
// [-1, 1] are clipped by the encoder. A failed write leaves no file behind.
func SaveWav(outputFile string, s *Signal) error {
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	if err := EncodeWav(file, s); err != nil {
		file.Close()
		os.Remove(outputFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(outputFile)
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}

// EncodeWav writes the signal as 16-bit mono wav data.
func EncodeWav(w io.WriteSeeker, s *Signal) error {
	if err := s.Validate(); err != nil {
		return err
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(s.SampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	pos := 0
	streamer := beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= len(s.Samples) {
			return 0, false
		}
		for n < len(samples) && pos < len(s.Samples) {
			samples[n][0] = s.Samples[pos]
			samples[n][1] = s.Samples[pos]
			n++
			pos++
		}
		return n, true
	})
	if err := beepwav.Encode(w, streamer, format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
