package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/repository"
)

// ContentTypeXLSX is the MIME type of the generated workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportColumn pairs a header with its width and per-record value derivation.
type exportColumn struct {
	header string
	width  float64
	value  func(p *models.Product) string
}

// Shared column schema, in fixed order. The Source column is dropped for
// per-source exports since it would be constant.
var exportColumns = []exportColumn{
	{"ID", 25, func(p *models.Product) string { return p.ID }},
	{"Title", 40, func(p *models.Product) string { return p.Title }},
	{"Description", 50, exportDescription},
	{"Price", 12, exportPrice},
	{"Vendor", 20, func(p *models.Product) string { return p.Vendor }},
	{"Product Type", 20, func(p *models.Product) string { return p.ProductType }},
	{"Status", 12, func(p *models.Product) string { return string(p.Status) }},
	{"Source", 12, func(p *models.Product) string { return string(p.Source) }},
	{"Created At", 20, func(p *models.Product) string { return formatExportTime(p.CreatedAt) }},
	{"Updated At", 20, func(p *models.Product) string { return formatExportTime(p.UpdatedAt) }},
	{"Image URL", 50, exportImageURL},
}

// ExportService renders product sets into spreadsheet workbooks. Like list
// queries it degrades to fallback data when the store is unavailable.
type ExportService struct {
	store    ProductStore
	avail    StoreAvailability
	fallback *FallbackGenerator
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(store ProductStore, avail StoreAvailability, fallback *FallbackGenerator) *ExportService {
	return &ExportService{store: store, avail: avail, fallback: fallback, now: time.Now}
}

// Export builds a workbook of all products matching the filter and returns
// it with a download filename derived from the filter context and the
// current date.
func (s *ExportService) Export(ctx context.Context, filter repository.ListFilter) (*excelize.File, string, error) {
	var products []models.Product
	if s.avail.Available() {
		var err error
		products, err = s.store.ListAll(filter)
		if err != nil {
			return nil, "", err
		}
	} else {
		corpus := FallbackExportCount
		if filter.Source != "" {
			corpus = FallbackExportSourceCount
		}
		generated := s.fallback.Generate(corpus, models.SourceCode(filter.Source))
		products = filterProducts(generated, filter.Search, filter.Source, filter.Status)
	}

	f, err := buildWorkbook(products, filter.Source)
	if err != nil {
		return nil, "", err
	}

	scope := filter.Source
	if scope == "" {
		scope = "all"
	}
	filename := fmt.Sprintf("products_%s_export_%s.xlsx", scope, s.now().Format("2006-01-02"))
	return f, filename, nil
}

// buildWorkbook renders the records into one worksheet applying the shared
// column schema. A non-empty source gives the sheet the source's name and
// drops the Source column.
func buildWorkbook(products []models.Product, source string) (*excelize.File, error) {
	columns := exportColumns
	sheet := "Products"
	if source != "" {
		columns = withoutSourceColumn(exportColumns)
		sheet = strings.ToUpper(source[:1]) + source[1:]
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	// Header styling: bold white on a solid blue fill. Cosmetic only.
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return nil, err
	}

	for i := range products {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = col.value(&products[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func withoutSourceColumn(columns []exportColumn) []exportColumn {
	out := make([]exportColumn, 0, len(columns)-1)
	for _, col := range columns {
		if col.header == "Source" {
			continue
		}
		out = append(out, col)
	}
	return out
}

// exportDescription prefers the rich-text body with markup stripped, then
// the plain description, then empty.
func exportDescription(p *models.Product) string {
	if p.BodyHTML != "" {
		return stripHTML(p.BodyHTML)
	}
	return p.Description
}

// exportPrice prefers the top-level price, then the first variant's price.
func exportPrice(p *models.Product) string {
	if p.Price != "" {
		return p.Price
	}
	if len(p.Variants) > 0 {
		return p.Variants[0].Price
	}
	return ""
}

// exportImageURL prefers the primary image, then the first secondary image.
func exportImageURL(p *models.Product) string {
	if p.Image.Src != "" {
		return p.Image.Src
	}
	if len(p.Images) > 0 {
		return p.Images[0].Src
	}
	return ""
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

var htmlEntityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// stripHTML removes markup and unescapes the common entities so rich-text
// bodies export as readable plain text.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlEntityReplacer.Replace(htmlTagPattern.ReplaceAllString(s, "")))
}
