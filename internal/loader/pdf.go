package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ledongthuc/pdf"

	"medichat/internal/domain"
)

// LoadPDFDirectory reads every *.pdf file directly under dir and returns one
// Document per page, with the page text as content and the file path, page
// number and page count in metadata. A missing or empty directory yields an
// empty slice; a file that fails to parse aborts the whole load.
func LoadPDFDirectory(dir string) ([]domain.Document, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var docs []domain.Document
	for _, path := range paths {
		pages, err := loadPDF(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		docs = append(docs, pages...)
	}
	return docs, nil
}

func loadPDF(path string) (docs []domain.Document, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := reader.NumPage()
	for num := 1; num <= total; num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", num, err)
		}
		docs = append(docs, domain.Document{
			Content: text,
			Metadata: map[string]string{
				domain.MetaSource:     path,
				domain.MetaPage:       strconv.Itoa(num),
				domain.MetaTotalPages: strconv.Itoa(total),
			},
		})
	}
	return docs, nil
}
