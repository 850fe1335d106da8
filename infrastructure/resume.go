package infrastructure

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// ExtractResumeText pulls plain text out of an uploaded resume. PDF and
// DOCX are supported; TXT passes through.
func ExtractResumeText(data []byte, filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "", fmt.Errorf("unsupported file format")
	}
	ext := strings.ToLower(filename[idx+1:])

	switch ext {
	case "txt":
		return strings.TrimSpace(string(data)), nil
	case "pdf":
		return extractTextFromPDF(data)
	case "docx":
		return extractTextFromDOCX(data)
	default:
		return "", fmt.Errorf("unsupported file format")
	}
}

// extractTextFromPDF extracts text page by page, skipping pages that fail.
func extractTextFromPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder
	extractedAnyText := false

	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}

		if pageText != "" {
			extractedAnyText = true
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	if !extractedAnyText {
		return "", fmt.Errorf("no text could be extracted from any page of the PDF")
	}

	return strings.TrimSpace(textBuilder.String()), nil
}

func extractTextFromDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	// The content is raw document XML; paragraph closings become newlines,
	// everything else is stripped.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTagPattern.ReplaceAllString(content, "")

	text := strings.TrimSpace(content)
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from the DOCX")
	}
	return text, nil
}
