package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/atci/internal/cancel"
	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

const (
	ffmpegBin  = "/tools/ffmpeg"
	whisperBin = "/tools/whisper-cli"
)

// fakeTools stands in for ffmpeg and whisper-cli by writing the files the
// real binaries would produce.
type fakeTools struct {
	srt         string
	subExit     int
	whisperExit int
	vtt         string
	// tripOnWhisper simulates an operator cancelling mid-transcription.
	tripOnWhisper *cancel.Token
	calls         []string
}

func (f *fakeTools) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeTools) Run(ctx context.Context, c executor.Canceller, name string, args ...string) (executor.Result, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if c != nil && c.Cancelled() {
		return executor.Result{}, executor.ErrCancelled
	}

	out := args[len(args)-1]
	switch name {
	case ffmpegBin:
		if contains(args, "-c:s") {
			if f.subExit != 0 {
				return executor.Result{ExitCode: f.subExit, Stderr: []byte("bad subtitle codec")}, nil
			}
			return executor.Result{}, os.WriteFile(out, []byte(f.srt), 0644)
		}
		return executor.Result{}, os.WriteFile(out, []byte("ID3"), 0644)
	case whisperBin:
		if f.tripOnWhisper != nil {
			if err := f.tripOnWhisper.Trip(); err != nil {
				return executor.Result{}, err
			}
			return executor.Result{}, executor.ErrCancelled
		}
		if f.whisperExit != 0 {
			return executor.Result{ExitCode: f.whisperExit}, nil
		}
		return executor.Result{}, os.WriteFile(out+".vtt", []byte(f.vtt), 0644)
	}
	return executor.Result{}, executor.ErrSpawnFailed
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

type fakeProber struct {
	subs     []int
	audio    bool
	audioErr error
}

func (p *fakeProber) Duration(ctx context.Context, path string) (string, error) {
	return "00:01:40", nil
}
func (p *fakeProber) SubtitleStreams(ctx context.Context, path string) ([]int, error) {
	return p.subs, nil
}
func (p *fakeProber) HasAudio(ctx context.Context, path string) (bool, error) {
	return p.audio, p.audioErr
}
func (p *fakeProber) ChannelLayout(ctx context.Context, path string) string { return "stereo" }
func (p *fakeProber) FrameRate(ctx context.Context, path string) float64    { return 30 }

type fixture struct {
	dir   string
	video string
	tools *fakeTools
	token *cancel.Token
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, name)
	if err := os.WriteFile(video, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return &fixture{
		dir:   dir,
		video: video,
		tools: &fakeTools{},
		token: cancel.New(filepath.Join(dir, ".commands", "CANCEL")),
	}
}

func (f *fixture) transcriber(p *fakeProber, opts Options) Transcriber {
	opts.FFmpegPath = ffmpegBin
	opts.WhisperCLIPath = whisperBin
	if opts.ModelName == "" {
		opts.ModelName = "base.en"
	}
	opts.ModelPath = "/models/" + opts.ModelName + ".bin"
	return New(opts, f.tools, p, f.token, logger.Discard())
}

func (f *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func (f *fixture) absent(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(f.dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist (err %v)", name, err)
		}
	}
}

var allOn = Options{AllowWhisper: true, AllowSubtitles: true}

func TestProduceSubtitles(t *testing.T) {
	f := newFixture(t, "movie.mkv")
	f.tools.srt = "1\n00:00:01,000 --> 00:00:02,500\nHello world\n"

	res := f.transcriber(&fakeProber{subs: []int{2}, audio: true}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Completed || res.Err != nil {
		t.Fatalf("Produce() = %+v, want clean Completed", res)
	}
	if res.Source != "subtitles" {
		t.Errorf("Source = %q, want subtitles", res.Source)
	}
	want := "source: subtitles\n>>>.atcimetaend\n\n00:00:01.000 --> 00:00:02.500\nHello world\n"
	if got := f.read(t, "movie.txt"); got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
	if !strings.Contains(f.tools.calls[0], "-map 0:2 -c:s srt") {
		t.Errorf("ffmpeg call = %q", f.tools.calls[0])
	}
	for _, c := range f.tools.calls {
		if strings.HasPrefix(c, whisperBin) {
			t.Error("whisper-cli invoked on the subtitle path")
		}
	}
	f.absent(t, "movie.atci.srt")
}

func TestProduceSubtitlesZeroBlocks(t *testing.T) {
	f := newFixture(t, "movie.mkv")
	f.tools.srt = "garbage\n"

	res := f.transcriber(&fakeProber{subs: []int{0}, audio: true}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Completed || res.Source != "subtitles" {
		t.Fatalf("Produce() = %+v", res)
	}
	if got, want := f.read(t, "movie.txt"), "source: subtitles\n>>>.atcimetaend\n"; got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}

func TestProduceSpeechFallback(t *testing.T) {
	f := newFixture(t, "clip.mp4")
	f.tools.vtt = "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n hello there\n"

	opts := allOn
	opts.ModelName = "small.en"
	res := f.transcriber(&fakeProber{audio: true}, opts).Produce(context.Background(), f.video)

	if res.Outcome != Completed || res.Err != nil {
		t.Fatalf("Produce() = %+v", res)
	}
	want := "source: small.en\n>>>.atcimetaend\n\n00:00:00.000 --> 00:00:02.000\n hello there\n"
	if got := f.read(t, "clip.txt"); got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
	f.absent(t, "clip.mp3", "clip.mp3.vtt")

	whisperCall := f.tools.calls[len(f.tools.calls)-1]
	if want := whisperBin + " -m /models/small.en.bin -np --max-context 0 -ovtt -f "; !strings.HasPrefix(whisperCall, want) {
		t.Errorf("whisper call = %q", whisperCall)
	}
	if !strings.Contains(f.tools.calls[0], "-map 0:a:0 -q:a 0 -ac 1 -ar 16000 -y") {
		t.Errorf("ffmpeg call = %q", f.tools.calls[0])
	}
}

func TestProduceSubtitleFailureFallsBack(t *testing.T) {
	f := newFixture(t, "movie.mkv")
	f.tools.subExit = 1
	f.tools.vtt = "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nhi\n"

	res := f.transcriber(&fakeProber{subs: []int{3}, audio: true}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Completed || res.Source != "base.en" {
		t.Fatalf("Produce() = %+v", res)
	}
}

func TestProduceCancelledDuringTranscription(t *testing.T) {
	f := newFixture(t, "long.mkv")
	f.tools.tripOnWhisper = f.token

	res := f.transcriber(&fakeProber{audio: true}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Cancelled {
		t.Fatalf("Outcome = %v, want cancelled", res.Outcome)
	}
	f.absent(t, "long.txt", "long.mp3", "long.mp3.vtt")
	if !f.token.Cancelled() {
		t.Error("token should stay tripped until the processor consumes it")
	}
}

func TestProduceNoAudioNoSubtitles(t *testing.T) {
	f := newFixture(t, "silent.mp4")

	res := f.transcriber(&fakeProber{}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Completed || res.Source != "" || res.Err != nil {
		t.Fatalf("Produce() = %+v", res)
	}
	if got := f.read(t, "silent.txt"); got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
	if len(f.tools.calls) != 0 {
		t.Errorf("tools invoked: %v", f.tools.calls)
	}
}

func TestProduceWhisperFailure(t *testing.T) {
	f := newFixture(t, "clip.mp4")
	f.tools.whisperExit = 3

	res := f.transcriber(&fakeProber{audio: true}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Completed {
		t.Fatalf("Outcome = %v, want completed", res.Outcome)
	}
	var exitErr *executor.ExitError
	if !errors.As(res.Err, &exitErr) || exitErr.Code != 3 {
		t.Errorf("Err = %v, want ExitError with code 3", res.Err)
	}
	if got := f.read(t, "clip.txt"); got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
	f.absent(t, "clip.mp3")
}

func TestProduceWhisperDisabled(t *testing.T) {
	f := newFixture(t, "clip.mp4")

	res := f.transcriber(&fakeProber{audio: true}, Options{AllowSubtitles: true}).Produce(context.Background(), f.video)

	if res.Outcome != Completed || res.Source != "" {
		t.Fatalf("Produce() = %+v", res)
	}
	if len(f.tools.calls) != 0 {
		t.Errorf("tools invoked: %v", f.tools.calls)
	}
}

func TestProduceSubtitlesDisabled(t *testing.T) {
	f := newFixture(t, "movie.mkv")
	f.tools.vtt = "WEBVTT\n"

	res := f.transcriber(&fakeProber{subs: []int{2}, audio: true}, Options{AllowWhisper: true}).Produce(context.Background(), f.video)

	if res.Source != "base.en" {
		t.Errorf("Source = %q, want base.en", res.Source)
	}
	for _, c := range f.tools.calls {
		if strings.Contains(c, "-c:s") {
			t.Error("subtitle extraction ran while disabled")
		}
	}
}

func TestProduceExistingTranscript(t *testing.T) {
	f := newFixture(t, "done.mp4")
	if err := os.WriteFile(filepath.Join(f.dir, "done.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	res := f.transcriber(&fakeProber{audio: true}, allOn).Produce(context.Background(), f.video)

	if !res.Skipped || res.Outcome != Completed {
		t.Errorf("Produce() = %+v, want skipped", res)
	}
	if got := f.read(t, "done.txt"); got != "keep" {
		t.Errorf("transcript rewritten: %q", got)
	}
}

func TestProduceAlreadyCancelled(t *testing.T) {
	f := newFixture(t, "clip.mp4")
	if err := f.token.Trip(); err != nil {
		t.Fatal(err)
	}

	res := f.transcriber(&fakeProber{audio: true}, allOn).Produce(context.Background(), f.video)

	if res.Outcome != Cancelled {
		t.Errorf("Outcome = %v, want cancelled", res.Outcome)
	}
	f.absent(t, "clip.txt")
}
