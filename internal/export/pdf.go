// Package export renders lessons as printable comic pages.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/lessons"
)

// ErrNoLesson is returned when there is nothing to render.
var ErrNoLesson = errors.New("export: no lesson")

const (
	pageMargin = 12.0
	lineHeight = 6.0
)

// LessonPDF writes an A4 comic page for lesson to w: a title bar in the
// subject color, the explanation, examples, tips, the dialogue panel,
// the professor's tip, the quiz and an answer key.
func LessonPDF(w io.Writer, topic catalog.Topic, lesson *lessons.Lesson) error {
	pdf, err := render(topic, lesson)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// WriteLessonPDF saves the comic page to path.
func WriteLessonPDF(path string, topic catalog.Topic, lesson *lessons.Lesson) error {
	pdf, err := render(topic, lesson)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	return nil
}

func render(topic catalog.Topic, lesson *lessons.Lesson) (*gofpdf.Fpdf, error) {
	if lesson == nil {
		return nil, ErrNoLesson
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(topic.Title, true)
	pdf.SetCreator("grammarstudio", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	width, _ := pdf.GetPageSize()
	contentWidth := width - 2*pageMargin

	// Title bar.
	r, g, b := hexRGB(topic.Subject.Color())
	pdf.SetFillColor(r, g, b)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.8)
	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(contentWidth, 16, tr(strings.ToUpper(topic.Title)), "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "I", 11)
	pdf.CellFormat(contentWidth, 8, tr(fmt.Sprintf("Mission %d  |  %s", topic.Step, topic.Subject)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section := func(title string) {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(contentWidth, 8, tr(title), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Arial", "", 11)
	}

	section("The Briefing")
	pdf.MultiCell(contentWidth, lineHeight, tr(lesson.Explanation), "", "L", false)

	section("Examples")
	for i, ex := range lesson.Examples {
		pdf.MultiCell(contentWidth, lineHeight, tr(fmt.Sprintf("%d. %s", i+1, ex)), "", "L", false)
	}

	section("Hero Tips")
	for _, tip := range lesson.Tips {
		pdf.MultiCell(contentWidth, lineHeight, tr("* "+tip), "", "L", false)
	}

	section("Comic Panel")
	pdf.SetFillColor(255, 251, 235)
	pdf.MultiCell(contentWidth, lineHeight, tr(lesson.ComicDialogue), "1", "L", true)

	section("Professor Punctuation Says")
	pdf.SetFont("Arial", "I", 11)
	pdf.MultiCell(contentWidth, lineHeight, tr(lesson.ProfessorTip), "", "L", false)

	section("The Hero's Challenge")
	for i, q := range lesson.Quiz {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(contentWidth, lineHeight, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)
		pdf.SetFont("Arial", "", 11)
		for j, opt := range q.Options {
			pdf.MultiCell(contentWidth, lineHeight, tr(fmt.Sprintf("    %c) %s", 'A'+j, opt)), "", "L", false)
		}
		pdf.Ln(1)
	}

	section("Answer Key")
	pdf.SetFont("Arial", "", 9)
	for i, q := range lesson.Quiz {
		pdf.MultiCell(contentWidth, 5, tr(fmt.Sprintf("%d. %s - %s", i+1, q.CorrectAnswer, q.Explanation)), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, nil
}

// hexRGB parses "#RRGGBB", falling back to grey.
func hexRGB(hex string) (int, int, int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return 156, 163, 175
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
