package api

import (
	"bytes"
	"fmt"
	"strings"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Bookings"
	exportTimeFmt   = "02.01.2006 15:04"
)

var exportColumns = []string{"ID", "Вещь", "Арендатор", "Email", "Начало", "Окончание", "Статус"}

// exportBookings renders owner bookings as an xlsx workbook.
func exportBookings(bookings []models.Booking, state models.BookingState) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	// Заголовок с фильтром
	_ = f.SetCellValue(exportSheet, "A1", fmt.Sprintf("Бронирования: %s", state))
	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	_ = f.MergeCell(exportSheet, "A1", lastCol+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, title := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(exportSheet, cell, title)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i := range bookings {
		row := i + 3
		values := bookingRow(&bookings[i])
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("error writing cell %s: %w", cell, err)
			}
		}
		if style, err := statusStyle(f, bookings[i].Status); err == nil {
			cell, _ := excelize.CoordinatesToCellName(len(values), row)
			_ = f.SetCellStyle(exportSheet, cell, cell, style)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 8)
	_ = f.SetColWidth(exportSheet, "B", "D", 25)
	_ = f.SetColWidth(exportSheet, "E", "G", 18)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func bookingRow(b *models.Booking) []any {
	var itemName, bookerName, bookerEmail string
	if b.Item != nil {
		itemName = b.Item.Name
	}
	if b.Booker != nil {
		bookerName = b.Booker.Name
		bookerEmail = b.Booker.Email
	}
	return []any{
		b.ID,
		itemName,
		bookerName,
		bookerEmail,
		b.Start.Format(exportTimeFmt),
		b.End.Format(exportTimeFmt),
		string(b.Status),
	}
}

func statusStyle(f *excelize.File, status models.BookingStatus) (int, error) {
	color := "#FFFFFF"
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusWaiting:
		color = "#FFEB9C"
	case models.StatusRejected:
		color = "#FFC7CE"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func exportFileName(ownerID int64, state models.BookingState) string {
	return fmt.Sprintf("bookings_%d_%s.xlsx", ownerID, strings.ToLower(string(state)))
}
