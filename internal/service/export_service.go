package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
)

var ErrExportGenerateFail = errors.New("failed to generate export file")

// ExportService renders schedules as downloadable files: a spreadsheet per
// unit and an iCalendar feed per person.
type ExportService interface {
	// ExportSchedule renders a unit's duty periods within [from, to] as an
	// XLSX workbook, one row per assignment.
	ExportSchedule(ctx context.Context, req *dto.ScheduleListRequest) (*bytes.Buffer, string, error)
	// ExportMyCalendar renders the caller's assignments within [from, to]
	// as an ICS calendar.
	ExportMyCalendar(ctx context.Context, userID string, req *dto.MyScheduleRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportSchedule(ctx context.Context, req *dto.ScheduleListRequest) (*bytes.Buffer, string, error) {
	unit, err := s.repo.Unit.GetByID(ctx, req.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnitNotFound
		}
		s.logger.Error("loading unit for export failed", zap.Error(err))
		return nil, "", err
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, "", err
	}

	assignments, err := s.repo.Assignment.ListByUnitBetween(ctx, req.UnitID, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("listing assignments for export failed", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Escala"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 28)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#C00000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — Escala de Serviço (%s a %s)",
		unit.Name, from.Format("02/01/2006"), to.Format("02/01/2006")))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Data")
	f.SetCellValue(sheetName, cell("B", row), "Serviço")
	f.SetCellValue(sheetName, cell("C", row), "Militar")
	f.SetCellValue(sheetName, cell("D", row), "Matrícula")
	f.SetCellValue(sheetName, cell("E", row), "Troca")

	row = 3
	for i := range assignments {
		a := &assignments[i]
		f.SetCellValue(sheetName, cell("A", row), a.DutyDate.Format("02/01/2006"))
		if a.Entry != nil {
			f.SetCellValue(sheetName, cell("B", row), a.Entry.Label)
		}
		if a.User != nil {
			f.SetCellValue(sheetName, cell("C", row), a.User.Name)
			f.SetCellValue(sheetName, cell("D", row), a.User.RegistrationNumber)
		}
		if a.SwapRequestID != nil {
			f.SetCellValue(sheetName, cell("E", row), "Sim")
		} else {
			f.SetCellValue(sheetName, cell("E", row), "-")
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("writing spreadsheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("escala_%s_%s.xlsx", from.Format("2006-01"), unit.Name)
	return buf, filename, nil
}

func (s *exportService) ExportMyCalendar(ctx context.Context, userID string, req *dto.MyScheduleRequest) (*bytes.Buffer, string, error) {
	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return nil, "", err
	}

	assignments, err := s.repo.Assignment.ListByUserBetween(ctx, userID, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("listing assignments for calendar failed", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//plataforma-bravo//escala//PT")

	now := time.Now()
	for i := range assignments {
		a := &assignments[i]
		event := cal.AddEvent(fmt.Sprintf("%s@plataforma-bravo", a.AssignmentID))
		event.SetDtStampTime(now)
		if a.Entry != nil {
			event.SetStartAt(a.Entry.StartsAt)
			event.SetEndAt(a.Entry.EndsAt)
			event.SetSummary(a.Entry.Label)
			if a.Entry.Notes != "" {
				event.SetDescription(a.Entry.Notes)
			}
		} else {
			start := time.Date(a.DutyDate.Year(), a.DutyDate.Month(), a.DutyDate.Day(), 8, 0, 0, 0, time.UTC)
			event.SetStartAt(start)
			event.SetEndAt(start.Add(24*time.Hour - time.Minute))
			event.SetSummary("Serviço Operacional")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("servicos_%s.ics", from.Format("2006-01"))
	return buf, filename, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
