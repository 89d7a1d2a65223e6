package parser

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/extractor"
)

const (
	wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	drawingNS        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	markupCompatNS   = "http://schemas.openxmlformats.org/markup-compatibility/2006"

	wordDocumentPart = "word/document.xml"
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

var slidePartExpr = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// DocxHandler reads paragraph text from Word documents.
type DocxHandler struct{}

var _ extractor.Handler = (*DocxHandler)(nil)

// NewDocxHandler builds the Word handler.
func NewDocxHandler() *DocxHandler {
	return &DocxHandler{}
}

// Kind identifies the handler inside the registry.
func (h *DocxHandler) Kind() domain.FormatKind { return domain.KindWord }

// Extensions lists Word extensions.
func (h *DocxHandler) Extensions() []string { return []string{".docx"} }

// Extract joins every paragraph of the main document part with newlines.
func (h *DocxHandler) Extract(ctx context.Context, filePath string) (extractor.Extraction, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	part, err := openPart(&archive.Reader, wordDocumentPart)
	if err != nil {
		return extractor.Extraction{}, err
	}
	defer part.Close()

	groups, err := readParagraphs(part, wordprocessingNS, "")
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("parse %s: %w", wordDocumentPart, err)
	}

	var paragraphs []string
	for _, group := range groups {
		paragraphs = append(paragraphs, group...)
	}
	return extractor.Extraction{Text: strings.Join(paragraphs, "\n"), Units: len(paragraphs)}, nil
}

// PptxHandler reads shape text from slide decks.
type PptxHandler struct{}

var _ extractor.Handler = (*PptxHandler)(nil)

// NewPptxHandler builds the slide-deck handler.
func NewPptxHandler() *PptxHandler {
	return &PptxHandler{}
}

// Kind identifies the handler inside the registry.
func (h *PptxHandler) Kind() domain.FormatKind { return domain.KindSlides }

// Extensions lists slide-deck extensions.
func (h *PptxHandler) Extensions() []string { return []string{".pptx"} }

// Extract walks slides in presentation order. Each text-bearing shape
// contributes its paragraphs; slides are separated by a blank line.
func (h *PptxHandler) Extract(ctx context.Context, filePath string) (extractor.Extraction, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return extractor.Extraction{}, fmt.Errorf("open pptx: %w", err)
	}
	defer archive.Close()

	slides, err := slideOrder(&archive.Reader)
	if err != nil {
		return extractor.Extraction{}, err
	}

	texts := make([]string, 0, len(slides))
	for _, name := range slides {
		if err := ctx.Err(); err != nil {
			return extractor.Extraction{}, err
		}

		text, err := readSlide(&archive.Reader, name)
		if err != nil {
			return extractor.Extraction{}, err
		}
		texts = append(texts, text)
	}

	return extractor.Extraction{Text: strings.Join(texts, "\n\n"), Units: len(slides)}, nil
}

func readSlide(archive *zip.Reader, name string) (string, error) {
	part, err := openPart(archive, name)
	if err != nil {
		return "", err
	}
	defer part.Close()

	shapes, err := readParagraphs(part, drawingNS, "txBody")
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}

	lines := make([]string, 0, len(shapes))
	for _, paragraphs := range shapes {
		text := strings.Join(paragraphs, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n"), nil
}

// slideOrder resolves slide parts through presentation.xml; decks without a
// usable slide list fall back to numeric part order.
func slideOrder(archive *zip.Reader) ([]string, error) {
	ordered, err := presentationSlides(archive)
	if err == nil && len(ordered) > 0 {
		return ordered, nil
	}

	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for _, f := range archive.File {
		m := slidePartExpr.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, numbered{n: n, name: f.Name})
	}
	if len(found) == 0 && err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	names := make([]string, 0, len(found))
	for _, f := range found {
		names = append(names, f.name)
	}
	return names, nil
}

func presentationSlides(archive *zip.Reader) ([]string, error) {
	var pres struct {
		SlideIDs []struct {
			RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldIdLst>sldId"`
	}
	if err := decodePart(archive, presentationPart, &pres); err != nil {
		return nil, err
	}

	var rels struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := decodePart(archive, presentationRels, &rels); err != nil {
		return nil, err
	}

	targets := make(map[string]string, len(rels.Items))
	for _, rel := range rels.Items {
		targets[rel.ID] = rel.Target
	}

	names := make([]string, 0, len(pres.SlideIDs))
	for _, id := range pres.SlideIDs {
		target, ok := targets[id.RelID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %s not found", id.RelID)
		}
		if strings.HasPrefix(target, "/") {
			names = append(names, strings.TrimPrefix(target, "/"))
			continue
		}
		names = append(names, path.Clean(path.Join("ppt", target)))
	}
	return names, nil
}

func decodePart(archive *zip.Reader, name string, v any) error {
	part, err := openPart(archive, name)
	if err != nil {
		return err
	}
	defer part.Close()

	if err := xml.NewDecoder(part).Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func openPart(archive *zip.Reader, name string) (io.ReadCloser, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	return f, nil
}

type paragraph struct {
	text strings.Builder
	// paragraphs of text boxes anchored inside this one
	nested []string
}

// readParagraphs streams an OOXML part and returns paragraph texts. When
// groupLocal is set, paragraphs are grouped by that enclosing element
// (one group per text body); otherwise a single group is returned.
// Text-box paragraphs follow the paragraph they are anchored in, and
// mc:Fallback copies of alternate content are skipped.
func readParagraphs(r io.Reader, paraNS, groupLocal string) ([][]string, error) {
	dec := xml.NewDecoder(r)

	var (
		groups  [][]string
		current []string
		stack   []*paragraph
		inText  int
		inProps int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == markupCompatNS && el.Name.Local == "Fallback" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			if groupLocal != "" && el.Name.Local == groupLocal {
				current = nil
				continue
			}
			if el.Name.Space != paraNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				stack = append(stack, &paragraph{})
			case "t":
				inText++
			case "pPr":
				inProps++
			case "tab":
				if len(stack) > 0 && inProps == 0 {
					stack[len(stack)-1].text.WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 {
					stack[len(stack)-1].text.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if groupLocal != "" && el.Name.Local == groupLocal {
				groups = append(groups, current)
				current = nil
				continue
			}
			if el.Name.Space != paraNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				if len(stack) == 0 {
					continue
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				done := append([]string{top.text.String()}, top.nested...)
				if len(stack) > 0 {
					parent := stack[len(stack)-1]
					parent.nested = append(parent.nested, done...)
					continue
				}
				current = append(current, done...)
			case "t":
				if inText > 0 {
					inText--
				}
			case "pPr":
				if inProps > 0 {
					inProps--
				}
			}
		case xml.CharData:
			if inText > 0 && len(stack) > 0 {
				stack[len(stack)-1].text.Write(el)
			}
		}
	}

	if groupLocal == "" {
		groups = append(groups, current)
	}
	return groups, nil
}
