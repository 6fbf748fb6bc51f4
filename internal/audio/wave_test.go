package audio

import (
	"encoding/binary"
	"testing"
)

func TestWrapPCMHeader(t *testing.T) {
	samples := make([]byte, 2400) // 50ms of 24kHz mono s16le
	wav := WrapPCM(samples)

	if len(wav) != waveHeaderSize+len(samples) {
		t.Fatalf("Expected %d bytes, got %d", waveHeaderSize+len(samples), len(wav))
	}

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("Missing RIFF/WAVE markers: %q %q", wav[0:4], wav[8:12])
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Errorf("Missing fmt/data chunks: %q %q", wav[12:16], wav[36:40])
	}

	if got := binary.LittleEndian.Uint32(wav[4:8]); got != 36+uint32(len(samples)) {
		t.Errorf("RIFF size: expected %d, got %d", 36+len(samples), got)
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("Audio format: expected 1 (PCM), got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != PCMChannels {
		t.Errorf("Channels: expected %d, got %d", PCMChannels, got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != PCMSampleRate {
		t.Errorf("Sample rate: expected %d, got %d", PCMSampleRate, got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 48000 {
		t.Errorf("Byte rate: expected 48000, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != PCMBitDepth {
		t.Errorf("Bit depth: expected %d, got %d", PCMBitDepth, got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(samples)) {
		t.Errorf("Data size: expected %d, got %d", len(samples), got)
	}
}

func TestWrapPCMEmpty(t *testing.T) {
	wav := WrapPCM(nil)
	if len(wav) != waveHeaderSize {
		t.Fatalf("Expected bare header, got %d bytes", len(wav))
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 0 {
		t.Errorf("Data size: expected 0, got %d", got)
	}
}
