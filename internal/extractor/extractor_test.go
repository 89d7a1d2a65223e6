package extractor

import (
	"context"
	"errors"
	"testing"

	"FolderTranslator/internal/domain"
)

type stubHandler struct {
	kind  domain.FormatKind
	exts  []string
	text  string
	err   error
	panic bool
	calls int
}

func (s *stubHandler) Kind() domain.FormatKind { return s.kind }
func (s *stubHandler) Extensions() []string    { return s.exts }

func (s *stubHandler) Extract(ctx context.Context, path string) (Extraction, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	return Extraction{Text: s.text, Units: 1}, s.err
}

func TestRegistryResolveIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	img := &stubHandler{kind: domain.KindImage, exts: []string{".png", "JPG"}}
	reg.Register(img)

	for _, path := range []string{"/in/a.png", "/in/B.PNG", "/in/c.jpg", "/in/d.JpG"} {
		h, err := reg.Resolve(path)
		if err != nil {
			t.Fatalf("resolve %s: %v", path, err)
		}
		if h.Kind() != domain.KindImage {
			t.Fatalf("unexpected kind for %s: %s", path, h.Kind())
		}
	}

	if _, err := reg.Resolve("/in/notes.xyz"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	exts := reg.Extensions()
	if len(exts) != 2 || exts[0] != ".jpg" || exts[1] != ".png" {
		t.Fatalf("unexpected extensions: %v", exts)
	}
}

func TestDispatcherUnsupportedIsSilent(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(NewRegistry(), nil)
	res := d.Extract(context.Background(), "/in/archive.zip")

	if res.Kind != domain.KindUnsupported {
		t.Fatalf("unexpected kind: %s", res.Kind)
	}
	if res.Success || res.Err != "" {
		t.Fatalf("unsupported must be success=false without error, got %+v", res)
	}
}

func TestDispatcherReportsKindForEverySupportedFormat(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	handlers := map[string]*stubHandler{
		"scan.tiff":  {kind: domain.KindImage, exts: []string{".tiff"}},
		"notes.txt":  {kind: domain.KindText, exts: []string{".txt"}, text: "Bonjour"},
		"paper.pdf":  {kind: domain.KindPDF, exts: []string{".pdf"}, text: "page"},
		"memo.docx":  {kind: domain.KindWord, exts: []string{".docx"}, text: "para"},
		"deck.pptx":  {kind: domain.KindSlides, exts: []string{".pptx"}, text: "slide"},
		"index.html": {kind: domain.KindHTML, exts: []string{".html"}, text: "body"},
	}
	for _, h := range handlers {
		reg.Register(h)
	}

	d := NewDispatcher(reg, nil)
	for name, h := range handlers {
		res := d.Extract(context.Background(), "/in/"+name)
		if res.Kind != h.kind {
			t.Fatalf("%s: kind %s, want %s", name, res.Kind, h.kind)
		}
		if !res.Success {
			t.Fatalf("%s: expected success, got %+v", name, res)
		}
		if res.Text != h.text {
			t.Fatalf("%s: text %q, want %q", name, res.Text, h.text)
		}
	}
}

func TestDispatcherEmptyTextIsSuccess(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubHandler{kind: domain.KindImage, exts: []string{".png"}, text: "  \n\t "})

	res := NewDispatcher(reg, nil).Extract(context.Background(), "/in/blank.png")
	if !res.Success || res.Text != "" || res.Err != "" {
		t.Fatalf("expected success with empty text, got %+v", res)
	}
}

func TestDispatcherFoldsErrorsAndPanics(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubHandler{kind: domain.KindWord, exts: []string{".docx"}, err: errors.New("zip: not a valid zip file")})
	reg.Register(&stubHandler{kind: domain.KindSlides, exts: []string{".pptx"}, panic: true})
	d := NewDispatcher(reg, nil)

	res := d.Extract(context.Background(), "/in/broken.docx")
	if res.Success || res.Kind != domain.KindWord || res.Err == "" {
		t.Fatalf("expected word failure, got %+v", res)
	}

	res = d.Extract(context.Background(), "/in/broken.pptx")
	if res.Success || res.Kind != domain.KindSlides || res.Err == "" {
		t.Fatalf("expected recovered panic, got %+v", res)
	}
}
