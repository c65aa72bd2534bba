package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const inspectBody = "---\n\n# Intro\n\n### Basics\n\n--\n* one\n\n" +
	"```rust\nfn main() {}\n```\n\n" +
	"```nosuchlang\nx\n```\n\n" +
	"---\n\n# Images\n\n![](img/ferris.png)\n"

func TestInspector_Inspect(t *testing.T) {
	t.Parallel()

	out, err := NewInspector().Inspect(context.Background(), inspectBody)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	if out.Slides != 2 {
		t.Errorf("Slides = %d, want 2", out.Slides)
	}

	wantHeadings := []Heading{{1, "Intro"}, {3, "Basics"}, {1, "Images"}}
	if !reflect.DeepEqual(out.Headings, wantHeadings) {
		t.Errorf("Headings = %+v, want %+v", out.Headings, wantHeadings)
	}

	wantCode := []CodeBlock{{"rust", true}, {"nosuchlang", false}}
	if !reflect.DeepEqual(out.CodeBlocks, wantCode) {
		t.Errorf("CodeBlocks = %+v, want %+v", out.CodeBlocks, wantCode)
	}

	if !reflect.DeepEqual(out.Images, []string{"img/ferris.png"}) {
		t.Errorf("Images = %v", out.Images)
	}
}

func TestInspector_InspectEmpty(t *testing.T) {
	t.Parallel()

	out, err := NewInspector().Inspect(context.Background(), "")
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if out.Slides != 0 || len(out.Headings) != 0 || len(out.CodeBlocks) != 0 {
		t.Errorf("Inspect(\"\") = %+v, want empty outline", out)
	}
}

func TestInspector_InspectCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewInspector().Inspect(ctx, "# x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Inspect() error = %v, want context.Canceled", err)
	}
}

func TestOutline_UnknownLanguages(t *testing.T) {
	t.Parallel()

	o := Outline{CodeBlocks: []CodeBlock{
		{"rust", true},
		{"zz", false},
		{"", true},
		{"yy", false},
		{"zz", false},
	}}

	got := o.UnknownLanguages()
	if !reflect.DeepEqual(got, []string{"zz", "yy"}) {
		t.Errorf("UnknownLanguages() = %v, want [zz yy]", got)
	}
}
