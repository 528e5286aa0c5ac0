package evaluation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/mutugading/marketplace-backend/internal/domain/evaluation"
	"github.com/mutugading/marketplace-backend/internal/domain/provider"
)

// ExportQuery represents the export evaluations query.
type ExportQuery struct {
	ProviderID string
}

// ExportResult represents the generated workbook.
type ExportResult struct {
	FileContent []byte
	FileName    string
}

// ExportHandler handles the ExportProviderEvaluations query.
type ExportHandler struct {
	repo      evaluation.Repository
	providers provider.Repository
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(repo evaluation.Repository, providers provider.Repository) *ExportHandler {
	return &ExportHandler{repo: repo, providers: providers}
}

// Handle builds an xlsx workbook with every evaluation of a provider.
func (h *ExportHandler) Handle(ctx context.Context, query ExportQuery) (*ExportResult, error) {
	id, err := uuid.Parse(query.ProviderID)
	if err != nil {
		return nil, provider.ErrNotFound
	}

	p, err := h.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	evals, err := h.repo.ListByProviderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluations for export: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Evaluations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"No", "Evaluation ID", "User ID", "Note", "Comment", "Created At"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheet, "A1", "F1", headerStyle)

	for i, e := range evals {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.ID().String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.UserID().String())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Note())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.Comment())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), e.CreatedAt().Format("2006-01-02 15:04:05"))
	}

	// Summary row below the data.
	summaryRow := len(evals) + 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), "Average")
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), evaluation.Average(evals))

	_ = f.SetColWidth(sheet, "A", "A", 5)
	_ = f.SetColWidth(sheet, "B", "C", 38)
	_ = f.SetColWidth(sheet, "D", "D", 8)
	_ = f.SetColWidth(sheet, "E", "E", 60)
	_ = f.SetColWidth(sheet, "F", "F", 20)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel to buffer: %w", err)
	}

	return &ExportResult{
		FileContent: buffer.Bytes(),
		FileName:    fmt.Sprintf("evaluations_%s.xlsx", p.ID().String()),
	}, nil
}
