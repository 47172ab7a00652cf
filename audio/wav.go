package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the size of the canonical PCM WAVE header.
const HeaderSize = 44

var (
	// ErrTooLarge is returned when the PCM data does not fit the 32-bit
	// RIFF size fields.
	ErrTooLarge = errors.New("audio: pcm data too large for wave container")

	// ErrInvalidWAV is returned by ParseHeader and DecodeWAV for input that
	// is not 16-bit linear PCM WAVE.
	ErrInvalidWAV = errors.New("audio: invalid wave data")
)

// Header holds the fields of the 44-byte WAVE header.
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Format returns the PCM format declared by the header.
func (h Header) Format() Format {
	return Format{SampleRate: int(h.SampleRate), Channels: int(h.Channels)}
}

// WriteTo writes the header in its little-endian wire layout.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, h.ChunkSize)
	buf.WriteString("WAVE")

	// fmt sub-chunk
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, h.AudioFormat)
	binary.Write(&buf, binary.LittleEndian, h.Channels)
	binary.Write(&buf, binary.LittleEndian, h.SampleRate)
	binary.Write(&buf, binary.LittleEndian, h.ByteRate)
	binary.Write(&buf, binary.LittleEndian, h.BlockAlign)
	binary.Write(&buf, binary.LittleEndian, h.BitsPerSample)

	// data sub-chunk
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, h.DataSize)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// EncodedFile is a complete WAVE file: header plus PCM payload.
type EncodedFile struct {
	Header Header
	Data   []byte
}

// Len returns the total file size in bytes.
func (f *EncodedFile) Len() int {
	return HeaderSize + len(f.Data)
}

// WriteTo writes the header followed by the PCM data.
func (f *EncodedFile) WriteTo(w io.Writer) (int64, error) {
	n, err := f.Header.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := w.Write(f.Data)
	return n + int64(m), err
}

// Bytes returns the file contents as one slice.
func (f *EncodedFile) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(f.Len())
	f.WriteTo(&buf)
	return buf.Bytes()
}

// Encode serializes the timeline into a WAVE file. No I/O happens here.
func Encode(t *Timeline) (*EncodedFile, error) {
	if t == nil {
		return nil, ErrEmptyTimeline
	}
	samples := t.Samples()
	hdr, err := newHeader(t.Format, len(samples))
	if err != nil {
		return nil, err
	}
	data := make([]byte, hdr.DataSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return &EncodedFile{Header: hdr, Data: data}, nil
}

// EncodeFloat serializes interleaved floating-point samples, converting each
// with Sample16.
func EncodeFloat(samples []float64, f Format) (*EncodedFile, error) {
	hdr, err := newHeader(f, len(samples))
	if err != nil {
		return nil, err
	}
	data := make([]byte, hdr.DataSize)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(Sample16(v)))
	}
	return &EncodedFile{Header: hdr, Data: data}, nil
}

func newHeader(f Format, samples int) (Header, error) {
	if err := f.Validate(); err != nil {
		return Header{}, err
	}
	dataSize := uint64(samples) * BitsPerSample / 8
	if dataSize > math.MaxUint32-(HeaderSize-8) {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, dataSize)
	}
	byteRate := uint64(f.ByteRate())
	if byteRate > math.MaxUint32 {
		return Header{}, fmt.Errorf("%w: byte rate %d", ErrTooLarge, byteRate)
	}
	return Header{
		ChunkSize:     uint32(dataSize) + HeaderSize - 8,
		AudioFormat:   1,
		Channels:      uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    uint16(f.BlockAlign()),
		BitsPerSample: BitsPerSample,
		DataSize:      uint32(dataSize),
	}, nil
}

// Sample16 converts a sample in [-1, 1] to 16-bit PCM. Out of range input is
// clamped first. Negative values scale by 32768 and the rest by 32767, then
// truncate toward zero, so -1 maps to -32768 and 1 to 32767.
func Sample16(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}
	v = max(-1, min(1, v))
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}

// ParseHeader reads a canonical 44-byte header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidWAV, len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" ||
		string(b[12:16]) != "fmt " || string(b[36:40]) != "data" {
		return Header{}, fmt.Errorf("%w: unexpected chunk ids", ErrInvalidWAV)
	}
	le := binary.LittleEndian
	return Header{
		ChunkSize:     le.Uint32(b[4:]),
		AudioFormat:   le.Uint16(b[20:]),
		Channels:      le.Uint16(b[22:]),
		SampleRate:    le.Uint32(b[24:]),
		ByteRate:      le.Uint32(b[28:]),
		BlockAlign:    le.Uint16(b[32:]),
		BitsPerSample: le.Uint16(b[34:]),
		DataSize:      le.Uint32(b[40:]),
	}, nil
}

// DecodeWAV reads 16-bit PCM samples from a RIFF/WAVE file. Unlike
// ParseHeader it walks the chunk list, so files with LIST or fact chunks
// before the data are accepted. A data size larger than the remaining bytes,
// as streamed responses often declare, is clamped.
func DecodeWAV(b []byte) ([]int16, Format, error) {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, Format{}, fmt.Errorf("%w: missing RIFF/WAVE tag", ErrInvalidWAV)
	}
	le := binary.LittleEndian

	var (
		f      Format
		hasFmt bool
	)
	for off := 12; off+8 <= len(b); {
		id := string(b[off : off+4])
		size := int(le.Uint32(b[off+4:]))
		body := b[off+8:]
		if size < 0 || size > len(body) {
			size = len(body)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, Format{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			if tag := le.Uint16(body[0:]); tag != 1 {
				return nil, Format{}, fmt.Errorf("%w: audio format %d is not PCM", ErrInvalidWAV, tag)
			}
			if bits := le.Uint16(body[14:]); bits != BitsPerSample {
				return nil, Format{}, fmt.Errorf("%w: %d bits per sample", ErrInvalidWAV, bits)
			}
			f = Format{SampleRate: int(le.Uint32(body[4:])), Channels: int(le.Uint16(body[2:]))}
			hasFmt = true
		case "data":
			if !hasFmt {
				return nil, Format{}, fmt.Errorf("%w: data before fmt", ErrInvalidWAV)
			}
			if err := f.Validate(); err != nil {
				return nil, Format{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
			}
			n := size / 2
			n -= n % f.Channels
			samples := make([]int16, n)
			for i := range samples {
				samples[i] = int16(le.Uint16(body[i*2:]))
			}
			return samples, f, nil
		}
		// chunks are padded to an even size
		off += 8 + size + size&1
	}
	return nil, Format{}, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}

// PCM16 decodes raw little-endian 16-bit samples, dropping a trailing odd
// byte and any incomplete frame.
func PCM16(b []byte, f Format) []int16 {
	n := len(b) / 2
	if f.Channels > 0 {
		n -= n % f.Channels
	}
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}
