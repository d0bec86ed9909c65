package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler serves schedule downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedule downloads a unit's schedule as a spreadsheet.
// GET /api/v1/export/schedule?unit_id=&from=&to=
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportMyCalendar downloads the caller's assignments as an iCalendar feed.
// GET /api/v1/export/my-calendar?from=&to=
func (h *ExportHandler) ExportMyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	buf, filename, err := h.exportSvc.ExportMyCalendar(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		response.NotFound(c, 12001, "unidade não encontrada")
	case errors.Is(err, service.ErrInvalidStartDate):
		response.BadRequest(c, 13002, "data inválida")
	default:
		response.InternalError(c)
	}
}

func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
