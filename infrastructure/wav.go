package infrastructure

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"interview-prep/domain"
)

const whisperSampleRate = 16000

// resampleWAV decodes a PCM16 WAV payload, downmixes it to mono and
// linearly resamples it to 16 kHz, which is what the speech model expects.
func resampleWAV(data []byte) ([]byte, error) {
	samples, channels, rate, err := decodeWAV(data)
	if err != nil {
		return nil, &domain.AudioProcessingError{Err: err}
	}

	mono := downmix(samples, channels)
	resampled := resampleLinear(mono, rate, whisperSampleRate)

	return encodeWAV(resampled, whisperSampleRate), nil
}

func decodeWAV(data []byte) (samples []int16, channels int, sampleRate int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("not a RIFF/WAVE file")
	}

	var bitsPerSample int
	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, 0, fmt.Errorf("fmt chunk too short")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 { // PCM only
				return nil, 0, 0, fmt.Errorf("unsupported WAV format %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			if channels == 0 || sampleRate <= 0 || bitsPerSample != 16 {
				return nil, 0, 0, fmt.Errorf("unsupported WAV layout (channels=%d rate=%d bits=%d)", channels, sampleRate, bitsPerSample)
			}
			count := chunkSize / 2
			samples = make([]int16, count)
			for i := 0; i < count; i++ {
				samples[i] = int16(binary.LittleEndian.Uint16(data[body+i*2 : body+i*2+2]))
			}
			return samples, channels, sampleRate, nil
		}

		// chunks are word-aligned
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	return nil, 0, 0, fmt.Errorf("no data chunk found")
}

func downmix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}
	mono := make([]int16, len(samples)/channels)
	for i := range mono {
		var sum int
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[i*channels+ch])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}

func resampleLinear(samples []int16, from, to int) []int16 {
	if from == to || len(samples) == 0 {
		return samples
	}
	outLen := int(int64(len(samples)) * int64(to) / int64(from))
	if outLen == 0 {
		outLen = 1
	}
	out := make([]int16, outLen)
	ratio := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = int16(float64(samples[idx])*(1-frac) + float64(samples[idx+1])*frac)
	}
	return out
}

func encodeWAV(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, uint16(s))
	}

	return buf.Bytes()
}
