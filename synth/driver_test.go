package synth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/podcast-pipeline/audio"
	"github.com/maastricht-university/podcast-pipeline/script"
)

var mono24k = audio.Format{SampleRate: 24000, Channels: 1}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeSpeaker struct {
	format   audio.Format
	frames   int
	failOn   string
	requests []Request
}

func (f *fakeSpeaker) Speak(_ context.Context, req Request) (*Rendering, error) {
	f.requests = append(f.requests, req)
	if req.Text == f.failOn {
		return nil, errors.New("backend unavailable")
	}
	samples := make([]int16, f.frames*f.format.Channels)
	for i := range samples {
		samples[i] = int16(i + 1)
	}
	return &Rendering{Samples: samples, Format: f.format}, nil
}

func TestDriverSynthesize(t *testing.T) {
	sp := &fakeSpeaker{format: mono24k, frames: 2400}
	d := NewDriver(sp, mono24k, WithRate(1.25), WithPitch(0.9), WithLogger(quietLogger()))

	seg, err := d.Synthesize(context.Background(), script.Line{Speaker: "Alice", Text: "Hello", Ordinal: 0}, "v1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if seg.Speaker != "Alice" {
		t.Errorf("Speaker = %q; want Alice", seg.Speaker)
	}
	if seg.Format != mono24k {
		t.Errorf("Format = %v; want %v", seg.Format, mono24k)
	}
	if seg.Frames() != 2400 {
		t.Errorf("Frames = %d; want 2400", seg.Frames())
	}
	if seg.Duration.Milliseconds() != 100 {
		t.Errorf("Duration = %v; want 100ms", seg.Duration)
	}

	if len(sp.requests) != 1 {
		t.Fatalf("got %d requests; want 1", len(sp.requests))
	}
	want := Request{Text: "Hello", Voice: "v1", Rate: 1.25, Pitch: 0.9}
	if sp.requests[0] != want {
		t.Errorf("request = %+v; want %+v", sp.requests[0], want)
	}
}

func TestDriverUpmixesToStereo(t *testing.T) {
	stereo := audio.Format{SampleRate: 24000, Channels: 2}
	sp := &fakeSpeaker{format: mono24k, frames: 3}
	d := NewDriver(sp, stereo, WithLogger(quietLogger()))

	seg, err := d.Synthesize(context.Background(), script.Line{Speaker: "A", Text: "x"}, "v")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	want := []int16{1, 1, 2, 2, 3, 3}
	if len(seg.Samples) != len(want) {
		t.Fatalf("got %d samples; want %d", len(seg.Samples), len(want))
	}
	for i := range want {
		if seg.Samples[i] != want[i] {
			t.Errorf("sample[%d] = %d; want %d", i, seg.Samples[i], want[i])
		}
	}
}

func TestDriverPropagatesErrors(t *testing.T) {
	sp := &fakeSpeaker{format: mono24k, frames: 10, failOn: "boom"}
	d := NewDriver(sp, mono24k, WithLogger(quietLogger()))

	_, err := d.Synthesize(context.Background(), script.Line{Speaker: "A", Text: "boom", Ordinal: 3}, "v")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDriverEmptyRendering(t *testing.T) {
	sp := &fakeSpeaker{format: mono24k, frames: 0}
	d := NewDriver(sp, mono24k, WithLogger(quietLogger()))

	_, err := d.Synthesize(context.Background(), script.Line{Speaker: "A", Text: "x"}, "v")
	if !errors.Is(err, ErrEmptyRendering) {
		t.Errorf("error = %v; want ErrEmptyRendering", err)
	}
}

func TestDriverCanceledContext(t *testing.T) {
	sp := &fakeSpeaker{format: mono24k, frames: 10}
	d := NewDriver(sp, mono24k, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Synthesize(ctx, script.Line{Speaker: "A", Text: "x"}, "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v; want context.Canceled", err)
	}
	if len(sp.requests) != 0 {
		t.Errorf("speaker called %d times after cancel", len(sp.requests))
	}
}

func TestRemix(t *testing.T) {
	down, err := remix([]int16{10, 20, -4, 4, 32767, 32767}, 2, 1)
	if err != nil {
		t.Fatalf("remix: %v", err)
	}
	want := []int16{15, 0, 32767}
	for i := range want {
		if down[i] != want[i] {
			t.Errorf("down[%d] = %d; want %d", i, down[i], want[i])
		}
	}
	if _, err := remix([]int16{1}, 1, 6); err == nil {
		t.Error("expected error for 1 -> 6 channels")
	}
}

func TestDriverKeepsReportedDuration(t *testing.T) {
	sp := SpeakFunc(func(context.Context, Request) (*Rendering, error) {
		return &Rendering{Samples: make([]int16, 2400), Format: mono24k, Duration: 250 * time.Millisecond}, nil
	})
	seg, err := NewDriver(sp, mono24k, WithLogger(quietLogger())).
		Synthesize(context.Background(), script.Line{Speaker: "A", Text: "hi"}, "v1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if seg.Duration != 250*time.Millisecond {
		t.Errorf("Duration = %v; want the reported 250ms", seg.Duration)
	}
	if seg.Frames() != 2400 {
		t.Errorf("Frames = %d; want 2400", seg.Frames())
	}
}

// constSpeaker renders frames of a constant value per channel.
func constSpeaker(f audio.Format, frames int, values ...int16) Speaker {
	return SpeakFunc(func(context.Context, Request) (*Rendering, error) {
		samples := make([]int16, frames*f.Channels)
		for i := range samples {
			samples[i] = values[i%f.Channels]
		}
		return &Rendering{Samples: samples, Format: f}, nil
	})
}

func TestDriverResamples(t *testing.T) {
	tests := []struct {
		name   string
		src    audio.Format
		frames int
		values []int16
		dst    audio.Format
		want   []int16 // per-channel value expected mid-segment
	}{
		{
			name:   "22050 to 24000 mono",
			src:    audio.Format{SampleRate: 22050, Channels: 1},
			frames: 22050,
			values: []int16{8000},
			dst:    mono24k,
			want:   []int16{8000},
		},
		{
			name:   "48000 to 24000 stereo",
			src:    audio.Format{SampleRate: 48000, Channels: 2},
			frames: 48000,
			values: []int16{16000, -16000},
			dst:    audio.Format{SampleRate: 24000, Channels: 2},
			want:   []int16{16000, -16000},
		},
		{
			name:   "24000 mono to 44100 stereo",
			src:    mono24k,
			frames: 12000,
			values: []int16{-12000},
			dst:    audio.Format{SampleRate: 44100, Channels: 2},
			want:   []int16{-12000, -12000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDriver(constSpeaker(tt.src, tt.frames, tt.values...), tt.dst, WithLogger(quietLogger()))
			seg, err := d.Synthesize(context.Background(), script.Line{Speaker: "A", Text: "x"}, "v")
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			if len(seg.Samples)%tt.dst.Channels != 0 {
				t.Fatalf("%d samples is not a whole number of frames", len(seg.Samples))
			}
			wantFrames := tt.frames * tt.dst.SampleRate / tt.src.SampleRate
			if got := seg.Frames(); got < wantFrames-1 || got > wantFrames+1 {
				t.Errorf("Frames = %d; want %d (+-1)", got, wantFrames)
			}
			mid := seg.Frames() / 2
			for c, want := range tt.want {
				got := seg.Samples[mid*tt.dst.Channels+c]
				if diff := int(got) - int(want); diff < -800 || diff > 800 {
					t.Errorf("mid frame channel %d = %d; want ~%d", c, got, want)
				}
			}
		})
	}
}
