package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/application/reports"
	"github.com/jhoicas/caja-pro/internal/domain"
)

// ReportHandler maneja los reportes de cumplimiento (protegido).
type ReportHandler struct {
	itbisUC *reports.ITBISReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(itbisUC *reports.ITBISReportUseCase) *ReportHandler {
	return &ReportHandler{itbisUC: itbisUC}
}

// MonthlyITBIS devuelve el reporte mensual de ITBIS por cubeta de tasa.
// GET /api/reports/itbis?year=2026&month=8
func (h *ReportHandler) MonthlyITBIS(c *fiber.Ctx) error {
	year, month := reportPeriod(c)
	report, err := h.itbisUC.Monthly(c.Context(), year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year y month inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// MonthlyITBISPDF devuelve el mismo reporte como PDF.
// GET /api/reports/itbis/pdf?year=2026&month=8
func (h *ReportHandler) MonthlyITBISPDF(c *fiber.Ctx) error {
	year, month := reportPeriod(c)
	pdfBytes, err := h.itbisUC.MonthlyPDF(c.Context(), year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year y month inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="itbis-%d-%02d.pdf"`, year, month))
	return c.Send(pdfBytes)
}

func reportPeriod(c *fiber.Ctx) (int, int) {
	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	return year, month
}
