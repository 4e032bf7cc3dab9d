package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pressline/apiserver/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders reports as spreadsheets and, when an archive
// backend is configured, keeps a copy in the object store. Archiving is
// best-effort; a failed upload is logged and the export still returned.
type ExportService struct {
	reports *ReportService
	archive storage.Archive
	log     *slog.Logger
	now     func() time.Time
}

func NewExportService(reports *ReportService, archive storage.Archive, log *slog.Logger) *ExportService {
	return &ExportService{
		reports: reports,
		archive: archive,
		log:     log,
		now:     time.Now,
	}
}

// WeeklyTimecardsXLSX renders the weekly timecard report for
// [start, end] as an xlsx workbook: one row per employee, one paid and
// one unpaid column per day, with per-employee totals.
func (s *ExportService) WeeklyTimecardsXLSX(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	cards, err := s.reports.WeeklyTimecards(ctx, start, end)
	if err != nil {
		return nil, "", err
	}

	days := daysBetween(start, end)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timecards"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", err
	}

	headers := []string{"Employee"}
	for _, day := range days {
		headers = append(headers, day+" paid", day+" unpaid")
	}
	headers = append(headers, "Total paid", "Total unpaid")
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for rowIdx, card := range cards {
		row := rowIdx + 2
		values := []any{fmt.Sprintf("%s %s", card.User.FirstName, card.User.LastName)}

		var totalPaid, totalUnpaid float64
		for _, day := range days {
			var paid, unpaid float64
			if hours, ok := card.WeekData[day]; ok {
				paid = hours.Paid
				unpaid = hours.Unpaid
			}
			totalPaid += paid
			totalUnpaid += unpaid
			values = append(values, round2(paid), round2(unpaid))
		}
		values = append(values, round2(totalPaid), round2(totalUnpaid))

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("timecards_%s_%s.xlsx", start.Format("2006-01-02"), end.Format("2006-01-02"))
	s.archiveExport(ctx, filename, buf.Bytes())
	return buf.Bytes(), filename, nil
}

func (s *ExportService) archiveExport(ctx context.Context, key string, data []byte) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Put(ctx, key, bytes.NewReader(data), int64(len(data)), xlsxContentType); err != nil {
		s.log.Warn("failed to archive export", slog.String("key", key), slog.Any("error", err))
	}
}

// daysBetween lists the calendar days from start through end inclusive,
// formatted the way the weekly timecard buckets are keyed.
func daysBetween(start, end time.Time) []string {
	days := make([]string, 0, 7)
	for d := startOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}
