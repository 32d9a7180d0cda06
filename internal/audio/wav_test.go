package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := make([]byte, 480)
	b, err := EncodeWAV(pcm, 24000)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	if len(b) != 44+len(pcm) {
		t.Fatalf("encoded length = %d, want %d", len(b), 44+len(pcm))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Fatalf("container tags = %q %q, want RIFF WAVE", b[0:4], b[8:12])
	}
	if got := binary.LittleEndian.Uint32(b[24:28]); got != 24000 {
		t.Fatalf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != uint32(len(pcm)) {
		t.Fatalf("data size = %d, want %d", got, len(pcm))
	}
}

func TestWriteWAVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.wav")
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	if err := WriteWAVFile(path, pcm, 0); err != nil {
		t.Fatalf("WriteWAVFile() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(b) != 44+len(pcm) {
		t.Fatalf("file length = %d, want %d", len(b), 44+len(pcm))
	}
	if got := binary.LittleEndian.Uint32(b[24:28]); got != DefaultSampleRate {
		t.Fatalf("sample rate = %d, want default %d", got, DefaultSampleRate)
	}
}

func TestPCMDuration(t *testing.T) {
	// One second of 16-bit mono at 24 kHz is 48000 bytes.
	if got := PCMDuration(48000, 24000); got != time.Second {
		t.Fatalf("PCMDuration() = %v, want 1s", got)
	}
	if got := PCMDuration(24000, 24000); got != 500*time.Millisecond {
		t.Fatalf("PCMDuration() = %v, want 500ms", got)
	}
}

func TestRemoveWithRetryMissingFileIsFine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.wav")
	if err := RemoveWithRetry(path, 3, time.Millisecond); err != nil {
		t.Fatalf("RemoveWithRetry() error = %v, want nil for missing file", err)
	}
}

func TestRemoveWithRetryDeletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.wav")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := RemoveWithRetry(path, 3, time.Millisecond); err != nil {
		t.Fatalf("RemoveWithRetry() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still exists after RemoveWithRetry")
	}
}
