package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trananhdev/meeting-minutes/internal/domain/entities"
	"github.com/trananhdev/meeting-minutes/pkg/ai"
)

const goodCaption = "00:00:01.000 --> 00:00:03.000\n1 Alice: Hello team\n00:00:03.500 --> 00:00:05.000\n2 Bob: Hi Alice"

type fakeMedia struct {
	files       map[string][]byte
	unreachable map[string]bool
	downloadErr error
}

func (f *fakeMedia) DownloadFile(_ context.Context, url, _ string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	content, ok := f.files[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func (f *fakeMedia) CheckReachable(_ context.Context, url, _ string) error {
	if f.unreachable[url] {
		return entities.ErrMediaNotReachable
	}
	return nil
}

type fakeTranscriber struct {
	result *ai.TranscriptResult
	err    error
	calls  []string
}

func (f *fakeTranscriber) TranscribeFromURL(_ context.Context, audioURL string) (*ai.TranscriptResult, error) {
	f.calls = append(f.calls, audioURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func payloadWith(files ...entities.RecordingFile) *entities.MeetingPayload {
	return &entities.MeetingPayload{
		Object: entities.MeetingObject{
			MeetingID:      "m-1",
			RecordingFiles: files,
		},
	}
}

func TestProduce_CaptionPreferred(t *testing.T) {
	media := &fakeMedia{files: map[string][]byte{
		"https://dl/caption": []byte(goodCaption),
	}}
	transcriber := &fakeTranscriber{}
	strategy := NewStrategy(media, transcriber, time.Minute, nil)

	outcome, err := strategy.Produce(context.Background(), payloadWith(
		entities.RecordingFile{FileType: entities.FileTypeTranscript, DownloadURL: "https://dl/caption"},
		entities.RecordingFile{FileType: entities.FileTypeAudio, DownloadURL: "https://dl/audio"},
	))
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if outcome.Source != SourceCaption {
		t.Errorf("expected caption source, got %s", outcome.Source)
	}
	if outcome.Transcript != "Alice: Hello team\nBob: Hi Alice" {
		t.Errorf("unexpected transcript %q", outcome.Transcript)
	}
	if outcome.Quality == nil {
		t.Error("caption outcome should carry a quality report")
	}
	if len(transcriber.calls) != 0 {
		t.Error("STT must not run when captions are usable")
	}
}

func TestProduce_UnusableCaptionFallsBackToAudio(t *testing.T) {
	media := &fakeMedia{files: map[string][]byte{
		"https://dl/caption": []byte("garbage with no cues"),
	}}
	transcriber := &fakeTranscriber{result: &ai.TranscriptResult{
		Text:     "Speaker A: Hello",
		Speakers: []string{"Speaker A"},
	}}
	strategy := NewStrategy(media, transcriber, time.Minute, nil)

	outcome, err := strategy.Produce(context.Background(), payloadWith(
		entities.RecordingFile{FileType: entities.FileTypeCaption, DownloadURL: "https://dl/caption"},
		entities.RecordingFile{FileType: entities.FileTypeAudio, DownloadURL: "https://dl/audio"},
	))
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if outcome.Source != SourceAudio {
		t.Errorf("expected audio fallback, got %s", outcome.Source)
	}
	if len(transcriber.calls) != 1 || transcriber.calls[0] != "https://dl/audio" {
		t.Errorf("unexpected STT calls %v", transcriber.calls)
	}
}

func TestProduce_PrefersAudioOverVideo(t *testing.T) {
	media := &fakeMedia{}
	transcriber := &fakeTranscriber{result: &ai.TranscriptResult{Text: "x"}}
	strategy := NewStrategy(media, transcriber, time.Minute, nil)

	_, err := strategy.Produce(context.Background(), payloadWith(
		entities.RecordingFile{FileType: entities.FileTypeVideo, DownloadURL: "https://dl/video"},
		entities.RecordingFile{FileType: entities.FileTypeAudio, DownloadURL: "https://dl/audio"},
	))
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if transcriber.calls[0] != "https://dl/audio" {
		t.Errorf("audio container should win over video, STT got %s", transcriber.calls[0])
	}
}

func TestProduce_SkipsUnreachableCandidates(t *testing.T) {
	media := &fakeMedia{unreachable: map[string]bool{"https://dl/audio": true}}
	transcriber := &fakeTranscriber{result: &ai.TranscriptResult{Text: "x"}}
	strategy := NewStrategy(media, transcriber, time.Minute, nil)

	_, err := strategy.Produce(context.Background(), payloadWith(
		entities.RecordingFile{FileType: entities.FileTypeAudio, DownloadURL: "https://dl/audio"},
		entities.RecordingFile{FileType: entities.FileTypeVideo, DownloadURL: "https://dl/video"},
	))
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if transcriber.calls[0] != "https://dl/video" {
		t.Errorf("unreachable audio should be skipped, STT got %s", transcriber.calls[0])
	}
}

func TestProduce_NoMediaAvailable(t *testing.T) {
	strategy := NewStrategy(&fakeMedia{}, &fakeTranscriber{}, time.Minute, nil)

	_, err := strategy.Produce(context.Background(), payloadWith())
	if !errors.Is(err, entities.ErrNoMediaAvailable) {
		t.Fatalf("expected ErrNoMediaAvailable, got %v", err)
	}
}

func TestProduce_AllCandidatesUnreachable(t *testing.T) {
	media := &fakeMedia{unreachable: map[string]bool{"https://dl/audio": true}}
	strategy := NewStrategy(media, &fakeTranscriber{}, time.Minute, nil)

	_, err := strategy.Produce(context.Background(), payloadWith(
		entities.RecordingFile{FileType: entities.FileTypeAudio, DownloadURL: "https://dl/audio"},
	))
	if !errors.Is(err, entities.ErrNoMediaAvailable) {
		t.Fatalf("expected ErrNoMediaAvailable, got %v", err)
	}
}
