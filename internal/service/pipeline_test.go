package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"roomnlu/internal/config"
	"roomnlu/internal/model"
)

// fakeExtractor is a scripted ModelExtractor for pipeline tests.
type fakeExtractor struct {
	enabled bool
	slots   model.SlotMap
	err     error
	calls   int
}

func (f *fakeExtractor) ExtractSlots(ctx context.Context, utterance, modelName string) (model.SlotMap, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots.Clone(), nil
}

func (f *fakeExtractor) IsEnabled() bool { return f.enabled }

func newTestService(extractor ModelExtractor, cfg config.ParserConfig) *ParseService {
	s := NewParseService(extractor, nil, nil, cfg)
	s.now = func() time.Time { return referenceTime }
	return s
}

func defaultParserConfig() config.ParserConfig {
	return config.ParserConfig{BypassEnabled: true, IncludeSlots: true}
}

func TestParseBypassesModelOnConfidentInput(t *testing.T) {
	fake := &fakeExtractor{enabled: true, slots: model.SlotMap{"room": "ZZ 999"}}
	s := newTestService(fake, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{
		Utterance: "Reserve SJT 315 11 Sept 14:00 to 16:00 projector needed",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if fake.calls != 0 {
		t.Errorf("model was called %d times on a confident input", fake.calls)
	}
	if !resp.Bypassed {
		t.Error("expected bypassed response")
	}
	if resp.Template != model.TemplateBook {
		t.Errorf("template = %q, want %q", resp.Template, model.TemplateBook)
	}
	if resp.Args.RoomID == nil || *resp.Args.RoomID != "sjt-315" {
		t.Errorf("RoomID = %v, want sjt-315", resp.Args.RoomID)
	}
	if resp.Args.Date == nil || *resp.Args.Date != "2025-09-11" {
		t.Errorf("Date = %v, want 2025-09-11", resp.Args.Date)
	}
	if resp.Args.Start == nil || *resp.Args.Start != "14:00" {
		t.Errorf("Start = %v, want 14:00", resp.Args.Start)
	}
	if resp.Args.End == nil || *resp.Args.End != "16:00" {
		t.Errorf("End = %v, want 16:00", resp.Args.End)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", resp.Warnings)
	}
	if resp.ParseID == "" {
		t.Error("parse id should be set")
	}
}

func TestParseCancelWithBookingID(t *testing.T) {
	fake := &fakeExtractor{enabled: true, slots: model.SlotMap{}}
	s := newTestService(fake, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{Utterance: "Cancel booking BK-2021"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if resp.Bypassed {
		t.Error("a bare cancel should not bypass the model")
	}
	if fake.calls != 1 {
		t.Errorf("model calls = %d, want 1", fake.calls)
	}
	if resp.Template != model.TemplateCancel {
		t.Errorf("template = %q, want %q", resp.Template, model.TemplateCancel)
	}
	if resp.Slots["booking_id"] != "BK-2021" {
		t.Errorf("slots = %v, want booking_id BK-2021", resp.Slots)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", resp.Warnings)
	}
}

func TestParseAvailabilityCheckDropsUnsupportedRelativeDate(t *testing.T) {
	s := newTestService(nil, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{
		Utterance: "Is LH-204 free next Friday 2pm to 3:30pm?",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if resp.Template != model.TemplateCheck {
		t.Errorf("template = %q, want %q", resp.Template, model.TemplateCheck)
	}
	if resp.Args.Date != nil {
		t.Errorf("Date = %q, want absent (relative weekdays are outside the grammar)", *resp.Args.Date)
	}
	if resp.Args.Start == nil || *resp.Args.Start != "14:00" {
		t.Errorf("Start = %v, want 14:00", resp.Args.Start)
	}
	if resp.Args.End == nil || *resp.Args.End != "15:30" {
		t.Errorf("End = %v, want 15:30", resp.Args.End)
	}
	if len(resp.Warnings) != 0 {
		t.Errorf("availability checks carry no warnings, got %v", resp.Warnings)
	}
}

func TestParseRemovesHallucinatedRoom(t *testing.T) {
	fake := &fakeExtractor{enabled: true, slots: model.SlotMap{"room": "ZZ 999"}}
	s := newTestService(fake, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{Utterance: "Book something nice tomorrow"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if fake.calls != 1 {
		t.Errorf("model calls = %d, want 1", fake.calls)
	}
	if resp.Args.RoomID != nil {
		t.Errorf("RoomID = %q, want absent (not present in the utterance)", *resp.Args.RoomID)
	}
	if resp.Args.Date == nil || *resp.Args.Date != "2025-09-02" {
		t.Errorf("Date = %v, want 2025-09-02", resp.Args.Date)
	}
	want := []string{model.WarnMissingRoomID, model.WarnMissingTimeRange}
	if !reflect.DeepEqual(resp.Warnings, want) {
		t.Errorf("warnings = %v, want %v", resp.Warnings, want)
	}
}

func TestParseFlagsInvertedTimeRange(t *testing.T) {
	s := newTestService(nil, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{Utterance: "Book a room tomorrow 9 to 8"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if resp.Template != model.TemplateBook {
		t.Errorf("template = %q, want %q", resp.Template, model.TemplateBook)
	}
	if resp.Args.Start == nil || *resp.Args.Start != "09:00" {
		t.Errorf("Start = %v, want 09:00", resp.Args.Start)
	}
	if resp.Args.End == nil || *resp.Args.End != "08:00" {
		t.Errorf("End = %v, want 08:00", resp.Args.End)
	}
	want := []string{model.WarnMissingRoomID, model.WarnInvalidTimeRange}
	if !reflect.DeepEqual(resp.Warnings, want) {
		t.Errorf("warnings = %v, want %v", resp.Warnings, want)
	}
}

func TestParseDegradesWhenModelFails(t *testing.T) {
	fake := &fakeExtractor{enabled: true, err: errors.New("connection refused")}
	s := newTestService(fake, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{Utterance: "Cancel my meeting please"})
	if err != nil {
		t.Fatalf("a model failure must not fail the parse: %v", err)
	}

	if fake.calls != 1 {
		t.Errorf("model calls = %d, want 1", fake.calls)
	}
	if resp.Template != model.TemplateCancel {
		t.Errorf("template = %q, want %q", resp.Template, model.TemplateCancel)
	}
}

func TestParseForceModelSkipsBypass(t *testing.T) {
	fake := &fakeExtractor{enabled: true, slots: model.SlotMap{}}
	s := newTestService(fake, defaultParserConfig())

	resp, err := s.Parse(context.Background(), &model.ParseRequest{
		Utterance:  "Reserve SJT 315 11 Sept 14:00 to 16:00",
		ForceModel: true,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if resp.Bypassed {
		t.Error("force_model must disable the bypass")
	}
	if fake.calls != 1 {
		t.Errorf("model calls = %d, want 1", fake.calls)
	}
	if resp.Template != model.TemplateBook {
		t.Errorf("template = %q, want %q", resp.Template, model.TemplateBook)
	}
}

func TestParseBypassDisabledByConfig(t *testing.T) {
	fake := &fakeExtractor{enabled: true, slots: model.SlotMap{}}
	cfg := defaultParserConfig()
	cfg.BypassEnabled = false
	s := newTestService(fake, cfg)

	resp, err := s.Parse(context.Background(), &model.ParseRequest{
		Utterance: "Reserve SJT 315 11 Sept 14:00 to 16:00",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if resp.Bypassed {
		t.Error("bypass should stay off when disabled")
	}
	if fake.calls != 1 {
		t.Errorf("model calls = %d, want 1", fake.calls)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	s := newTestService(nil, defaultParserConfig())
	req := &model.ParseRequest{Utterance: "Book TT-101 tomorrow 4 pm - 6 pm"}

	first, err := s.Parse(context.Background(), req)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := s.Parse(context.Background(), req)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if first.Template != second.Template {
		t.Errorf("templates differ: %q vs %q", first.Template, second.Template)
	}
	if !reflect.DeepEqual(first.Args, second.Args) {
		t.Errorf("args differ: %+v vs %+v", first.Args, second.Args)
	}
	if !reflect.DeepEqual(first.Warnings, second.Warnings) {
		t.Errorf("warnings differ: %v vs %v", first.Warnings, second.Warnings)
	}
	if first.ParseID == second.ParseID {
		t.Error("each parse should get a fresh id")
	}
}

func TestParseRejectsEmptyUtterance(t *testing.T) {
	s := newTestService(nil, defaultParserConfig())

	for _, utterance := range []string{"", "   ", "\n\t"} {
		_, err := s.Parse(context.Background(), &model.ParseRequest{Utterance: utterance})
		if !errors.Is(err, ErrEmptyUtterance) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyUtterance", utterance, err)
		}
	}
}

func TestParseSlotsOmittedWhenDisabled(t *testing.T) {
	cfg := defaultParserConfig()
	cfg.IncludeSlots = false
	s := newTestService(nil, cfg)

	resp, err := s.Parse(context.Background(), &model.ParseRequest{Utterance: "Book TT-101 tomorrow 4 pm - 6 pm"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if resp.Slots != nil {
		t.Errorf("slots = %v, want omitted", resp.Slots)
	}
}
