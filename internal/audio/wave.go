package audio

import "encoding/binary"

// PCM format the voice collaborator emits: raw linear samples with no header.
const (
	PCMSampleRate = 24000
	PCMChannels   = 1
	PCMBitDepth   = 16
)

const waveHeaderSize = 44

// WrapPCM wraps raw 24 kHz mono 16-bit little-endian samples in a standard
// RIFF/WAVE header. Wrapping is the voice collaborator's responsibility; the
// core itself only ever sees headered audio.
func WrapPCM(samples []byte) []byte {
	n := uint32(len(samples))
	byteRate := uint32(PCMSampleRate * PCMChannels * PCMBitDepth / 8)
	blockAlign := uint16(PCMChannels * PCMBitDepth / 8)

	buf := make([]byte, waveHeaderSize, waveHeaderSize+len(samples))

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], 36+n)
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // audio format: linear PCM
	binary.LittleEndian.PutUint16(buf[22:24], PCMChannels)
	binary.LittleEndian.PutUint32(buf[24:28], PCMSampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], byteRate)
	binary.LittleEndian.PutUint16(buf[32:34], blockAlign)
	binary.LittleEndian.PutUint16(buf[34:36], PCMBitDepth)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], n)

	return append(buf, samples...)
}
