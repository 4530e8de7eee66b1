package export

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/batch"
	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
)

const (
	invoicesSheet = "Счета"
	summarySheet  = "Сводка"
)

var invoiceHeaders = []string{
	"Файл",
	"Статус",
	"Номер счёта",
	"Дата",
	"Срок оплаты",
	"Поставщик",
	"ИНН",
	"КПП",
	"Адрес",
	"Сумма",
	"НДС",
	"Ставка НДС, %",
	"Ошибка",
}

// Service renders batch reports as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteXLSX renders report with the default logger.
func WriteXLSX(report *batch.Report) ([]byte, error) {
	return NewService(nil).WriteXLSX(report)
}

// WriteXLSX returns a workbook with one row per file and a summary sheet.
func (s *Service) WriteXLSX(report *batch.Report) ([]byte, error) {
	if report == nil {
		return nil, errors.New("nil report")
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_failed", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	errorStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "9A0511"}})
	if err != nil {
		return nil, err
	}

	for i, h := range invoiceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(invoicesSheet, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(invoiceHeaders), 1)
	_ = f.SetCellStyle(invoicesSheet, "A1", lastHeader, headerStyle)

	row := 2
	for _, fr := range report.Files {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(invoicesSheet, cell, v)
		}
		money := func(col int, a *invoice.Amount) {
			if a == nil {
				return
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(invoicesSheet, cell, a.InexactFloat64())
			_ = f.SetCellStyle(invoicesSheet, cell, cell, moneyStyle)
		}

		write(1, fr.Path)
		write(2, string(fr.Status))
		switch {
		case fr.Status == constants.StatusError:
			msg := ""
			if fr.Err != nil {
				msg = truncate(fr.Err.Error(), 200)
			}
			write(13, msg)
			cell, _ := excelize.CoordinatesToCellName(13, row)
			_ = f.SetCellStyle(invoicesSheet, cell, cell, errorStyle)
		case fr.Result.Rejection != nil:
			write(13, fr.Result.Rejection.Error)
		case fr.Result.Invoice != nil:
			inv := fr.Result.Invoice
			write(3, deref(inv.InvoiceNumber))
			write(4, deref(inv.InvoiceDate))
			write(5, deref(inv.DueDate))
			write(6, deref(inv.Counterparty.Name))
			write(7, deref(inv.Counterparty.TaxID))
			write(8, deref(inv.Counterparty.KPP))
			write(9, deref(inv.Counterparty.Address))
			money(10, inv.TotalAmount)
			money(11, inv.VATAmount)
			money(12, inv.VATRate)
		}
		row++
	}

	_ = f.SetColWidth(invoicesSheet, "A", "A", 48) // path
	_ = f.SetColWidth(invoicesSheet, "B", "B", 12) // status
	_ = f.SetColWidth(invoicesSheet, "C", "E", 14)
	_ = f.SetColWidth(invoicesSheet, "F", "F", 36) // supplier
	_ = f.SetColWidth(invoicesSheet, "G", "H", 14)
	_ = f.SetColWidth(invoicesSheet, "I", "I", 40) // address
	_ = f.SetColWidth(invoicesSheet, "J", "L", 14) // amounts
	_ = f.SetColWidth(invoicesSheet, "M", "M", 48)

	if err := s.writeSummary(f, report, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", report.RunID,
		"rows", len(report.Files),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, report *batch.Report, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Запуск", report.RunID},
		{"Каталог", report.Root},
		{"Начало", report.StartedAt.Format(time.RFC3339)},
		{"Окончание", report.FinishedAt.Format(time.RFC3339)},
		{"Просмотрено", report.Stats.Scanned},
		{"Подходящих файлов", report.Stats.Matched},
		{"Счетов", report.Stats.OK},
		{"Не счетов", report.Stats.NotInvoice},
		{"Ошибок", report.Stats.Failed},
	}
	for i, r := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle)
	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 48)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
