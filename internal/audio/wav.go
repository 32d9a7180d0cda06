// Package audio holds the small amount of PCM plumbing between the
// synthesizer and playback: WAV container framing, duration math and
// artifact cleanup.
package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"time"
)

const DefaultSampleRate = 24000

// wavHeader is the fixed 44-byte RIFF/WAVE preamble for PCM16 mono.
type wavHeader struct {
	RiffTag       [4]byte
	RiffSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func newWAVHeader(dataSize, sampleRate int) wavHeader {
	const (
		channels = 1
		bits     = 16
	)
	h := wavHeader{
		RiffSize:      uint32(36 + dataSize),
		FmtSize:       16,
		AudioFormat:   1, // PCM
		NumChannels:   channels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * bits / 8),
		BlockAlign:    channels * bits / 8,
		BitsPerSample: bits,
		DataSize:      uint32(dataSize),
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")
	copy(h.DataTag[:], "data")
	return h
}

// WriteWAV writes mono PCM16LE samples to out as a WAV stream.
func WriteWAV(out io.Writer, pcm []byte, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if err := binary.Write(out, binary.LittleEndian, newWAVHeader(len(pcm), sampleRate)); err != nil {
		return err
	}
	_, err := out.Write(pcm)
	return err
}

// EncodeWAV wraps mono PCM16LE samples in a WAV container.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	if err := WriteWAV(&buf, pcm, sampleRate); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteWAVFile writes mono PCM16LE samples as a WAV file at path.
func WriteWAVFile(path string, pcm []byte, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, pcm, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PCMDuration reports how long the mono PCM16LE payload plays for.
func PCMDuration(pcmLen, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	samples := pcmLen / 2
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
