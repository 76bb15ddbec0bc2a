package script_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/overcue/internal/annotation"
	"github.com/fakeyudi/overcue/internal/script"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cues.json")
	original := script.Sample()

	if err := script.Write(original, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := script.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Version != original.Version {
		t.Errorf("Version = %d, want %d", loaded.Version, original.Version)
	}
	if loaded.Title != original.Title {
		t.Errorf("Title = %q, want %q", loaded.Title, original.Title)
	}
	if len(loaded.Annotations) != len(original.Annotations) {
		t.Fatalf("Annotations = %d, want %d", len(loaded.Annotations), len(original.Annotations))
	}
	for i, e := range original.Annotations {
		if loaded.Annotations[i] != e {
			t.Errorf("entry %d mismatch: got %+v, want %+v", i, loaded.Annotations[i], e)
		}
	}
}

func TestParseRejectsWrongVersion(t *testing.T) {
	_, err := script.Parse([]byte(`{"overcue_version": 99, "annotations": []}`))
	if !errors.Is(err, script.ErrNotScript) {
		t.Errorf("err = %v, want ErrNotScript", err)
	}

	_, err = script.Parse([]byte(`{"annotations": []}`))
	if !errors.Is(err, script.ErrNotScript) {
		t.Errorf("missing sentinel: err = %v, want ErrNotScript", err)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := script.Parse([]byte(`{"overcue_version": 1,`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestBuildSample(t *testing.T) {
	anns, warnings := script.Build(script.Sample())
	if len(warnings) != 0 {
		t.Errorf("sample script produced warnings: %v", warnings)
	}
	if len(anns) != 3 {
		t.Fatalf("built %d annotations, want 3", len(anns))
	}

	if _, ok := anns[0].(*annotation.Text); !ok {
		t.Errorf("entry 0: got %T, want *annotation.Text", anns[0])
	}
	b, ok := anns[1].(*annotation.SpeechBubble)
	if !ok {
		t.Fatalf("entry 1: got %T, want *annotation.SpeechBubble", anns[1])
	}
	if b.PointerEdge != annotation.EdgeBottom || b.PointerOffset != 30 {
		t.Errorf("bubble pointer = %q@%g, want bottom@30", b.PointerEdge, b.PointerOffset)
	}
	if b.Timing != (annotation.Interval{Start: 40, End: 100}) {
		t.Errorf("bubble timing = %+v", b.Timing)
	}

	link := anns[2].(*annotation.Text)
	if link.Link == "" {
		t.Error("entry 2: link not carried through")
	}
}

func TestBuildWarnings(t *testing.T) {
	doc := &script.Script{
		Version: script.Version,
		Annotations: []script.Entry{
			{Type: "text", Start: 50, End: 10, X: 10, Y: 10, W: 10, H: 10, Text: "inverted"},
			{Type: "text", Start: 0, End: 10, X: 120, Y: -5, W: 10, H: 10, Text: "offscreen"},
			{Type: "text", Start: 0, End: 10, X: 1, Y: 1, W: 1, H: 1, Text: "badcolor", TextColor: "red"},
			{Type: "marquee", Start: 0, End: 10, Text: "unknown"},
			{Type: "bubble", Start: 0, End: 10, X: 1, Y: 1, W: 1, H: 1, Text: "edge", PointerEdge: "center"},
		},
	}
	anns, warnings := script.Build(doc)

	// The unknown type is skipped; everything else still displays.
	if len(anns) != 4 {
		t.Fatalf("built %d annotations, want 4", len(anns))
	}

	wantFragments := []string{
		"inverted interval",
		"x=120",
		"y=-5",
		"text_color",
		"unknown type",
		"unknown pointer edge",
	}
	for _, frag := range wantFragments {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no warning mentioning %q in %v", frag, warnings)
		}
	}
}

func TestBuildDefaultsToText(t *testing.T) {
	doc := &script.Script{
		Version:     script.Version,
		Annotations: []script.Entry{{Start: 0, End: 10, Text: "untyped"}},
	}
	anns, _ := script.Build(doc)
	if len(anns) != 1 {
		t.Fatalf("built %d annotations, want 1", len(anns))
	}
	if _, ok := anns[0].(*annotation.Text); !ok {
		t.Errorf("untyped entry: got %T, want *annotation.Text", anns[0])
	}
}
