package synth

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/maastricht-university/podcast-pipeline/audio"
)

// convert adapts channel layout first, then sample rate.
func convert(samples []int16, src, dst audio.Format) ([]int16, error) {
	if src.Channels != dst.Channels {
		var err error
		samples, err = remix(samples, src.Channels, dst.Channels)
		if err != nil {
			return nil, err
		}
	}
	if src.SampleRate != dst.SampleRate {
		return resample(samples, src.SampleRate, dst.SampleRate, dst.Channels)
	}
	return samples, nil
}

// remix converts between mono and stereo. Mono is duplicated to both sides,
// stereo is averaged down.
func remix(samples []int16, from, to int) ([]int16, error) {
	switch {
	case from == 1 && to == 2:
		out := make([]int16, len(samples)*2)
		for i, s := range samples {
			out[i*2] = s
			out[i*2+1] = s
		}
		return out, nil
	case from == 2 && to == 1:
		out := make([]int16, len(samples)/2)
		for i := range out {
			out[i] = int16((int32(samples[i*2]) + int32(samples[i*2+1])) / 2)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported channel conversion %d -> %d", from, to)
}

// resample converts each channel with its own mono resampler. Process
// only ever reads the first channel of a multi-channel resampler and Flush
// only drains that one, so channels are split, converted and flushed one by
// one, then interleaved again.
func resample(samples []int16, from, to, channels int) ([]int16, error) {
	frames := len(samples) / channels
	want := int((int64(frames)*int64(to) + int64(from)/2) / int64(from))

	out := make([]int16, want*channels)
	for c := range channels {
		in := make([]float64, frames)
		for i := range in {
			in[i] = float64(samples[i*channels+c]) / 32768.0
		}
		res, err := resampleChannel(in, from, to)
		if err != nil {
			return nil, fmt.Errorf("resample channel %d: %w", c, err)
		}
		// The filter tail may run a few samples long or short; every
		// channel is fitted to the same frame count, short tails stay silent.
		for i := range min(want, len(res)) {
			out[i*channels+c] = audio.Sample16(res[i])
		}
	}
	return out, nil
}

func resampleChannel(in []float64, from, to int) ([]float64, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	out, err := r.Process(in)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush: %w", err)
	}
	return append(out, tail...), nil
}
