package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// ImportColumns is the column order of a product import sheet.
var ImportColumns = []string{"Name", "Category", "Price", "Stock", "Description"}

type ImportResult struct {
	Created int
	Skipped []string
}

type ImportService struct {
	catalog      *CatalogService
	categoryRepo repositories.CategoryRepositoryImpl
	log          logrus.FieldLogger
}

func NewImportService(catalog *CatalogService, categoryRepo repositories.CategoryRepositoryImpl, log logrus.FieldLogger) *ImportService {
	return &ImportService{
		catalog:      catalog,
		categoryRepo: categoryRepo,
		log:          log.WithField("module", "ImportService"),
	}
}

// ImportProducts reads products from the first sheet of an xlsx workbook.
// The header row is skipped, blank rows are ignored and rows that fail are
// reported without stopping the import.
func (s *ImportService) ImportProducts(ctx context.Context, r io.Reader, actor string) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: file is not a valid xlsx workbook", ErrValidation)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		rowNum := i + 1
		if err := s.importRow(ctx, row); err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("row %d: %s", rowNum, err))
			continue
		}
		result.Created++
	}

	s.log.WithFields(logrus.Fields{
		"funcName": "ImportProducts",
		"actor":    actor,
		"created":  result.Created,
		"skipped":  len(result.Skipped),
	}).Info("ImportProducts: import finished")
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, row []string) error {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	price, err := helpers.ParseDecimal(cell(2))
	if err != nil {
		return fmt.Errorf("invalid price %q", cell(2))
	}
	stock := 0
	if raw := cell(3); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid stock %q", raw)
		}
	}

	input := ProductInput{Name: name, Price: price, Stock: stock, Description: cell(4)}
	if categoryName := cell(1); categoryName != "" {
		category, err := s.categoryRepo.GetOrCreateByName(ctx, categoryName)
		if err != nil {
			return fmt.Errorf("category %q: %v", categoryName, err)
		}
		input.CategoryID = category.ID
	}

	_, err = s.catalog.CreateProduct(ctx, input)
	return err
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
