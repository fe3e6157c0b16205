package models

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Policy Number", "Full Name", "Phone", "Email", "Vehicle Number",
	"Policy Type", "Start Date", "Renewal Date", "Premium", "Commission", "Status",
}

// ExportClientsExcel writes the full client book as an xlsx workbook.
// Rows carry the same derived policy number and status as the list view.
func ExportClientsExcel(ctx context.Context, w io.Writer, now time.Time) error {
	rows, err := ListClients(ctx, "", "all", now)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Clients"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, h)
	}

	for i, row := range rows {
		renewal := ""
		if row.RenewalDate != nil {
			renewal = row.RenewalDate.Format("2006-01-02")
		}
		values := []interface{}{
			row.PolicyNumber,
			row.FullName,
			row.Phone,
			row.Email,
			row.VehicleNumber,
			string(row.PolicyType),
			row.StartDate.Format("2006-01-02"),
			renewal,
			row.Premium.InexactFloat64(),
			row.Commission.InexactFloat64(),
			row.StatusLabel,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	return f.Write(w)
}

// ExportFilename returns the attachment name, e.g. clients-2026-08-30.xlsx.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("clients-%s.xlsx", now.Format("2006-01-02"))
}
