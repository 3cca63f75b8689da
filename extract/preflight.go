package extract

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validate checks that a document is structurally sound enough to read.
// Validation runs relaxed: fare booklets come from a zoo of generators
// and strict mode rejects too many real documents.
func Validate(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}

// PageCount reports a document's page count without opening a source
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages in %s: %w", path, err)
	}
	return count, nil
}
