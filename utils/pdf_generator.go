package utils

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/move-sure/ss-transport-sub002/kaat"
	"github.com/move-sure/ss-transport-sub002/models"
	"github.com/move-sure/ss-transport-sub002/repository"
)

// GenerateKaatBillPDF renders the kaat bill for one settlement as a single A4
// PDF. Returns (nil, nil) when the settlement does not exist.
func GenerateKaatBillPDF(repo *repository.PDFRepository, settlementID string) ([]byte, error) {
	// Fetch settlement
	settlement, err := repo.GetSettlementForPDF(settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, nil
	}

	// Fetch challan header
	challan, err := repo.GetChallanForPDF(settlement.ChallanNo)
	if err != nil {
		return nil, err
	}

	// Fetch bill rows
	rows, err := repo.GetRowsForPDF(settlement)
	if err != nil {
		return nil, err
	}

	// Format bill date safely
	formattedDate := "-"
	if !settlement.CreatedAt.IsZero() {
		formattedDate = settlement.CreatedAt.Format("02-Jan-2006")
	}

	total := kaat.Display(settlement.TotalAmount)

	// Load HTML template once
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	tmpl, err := template.New("kaat_bill_template.html").Funcs(funcs).ParseFiles("templates/kaat_bill_template.html")
	if err != nil {
		return nil, err
	}

	data := models.KaatBillPDFData{
		Settlement: settlement,
		Challan:    challan,
		Rows:       rows,
		Date:       formattedDate,
		Total:      total.StringFixed(2),
		TotalWords: NumberToCurrencyWords(total),
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return nil, err
	}

	finalHTML := `
		<!DOCTYPE html>
		<html>
		<head>
		<meta charset="UTF-8">
		<style>
		@page {
			size: A4;
			margin: 20px;
		}
		body {
			font-family: Arial, Helvetica, sans-serif;
			font-size: 12px;
			margin: 0;
			padding: 0;
		}
		.bill-row {
			page-break-inside: avoid;
		}
		</style>
		</head>
		<body>` + body.String() + `</body></html>`

	// Create temp HTML file
	tmpDir := os.TempDir()
	tmpHTML := filepath.Join(tmpDir, "kaat_bill_"+time.Now().Format("20060102150405")+".html")
	if err := os.WriteFile(tmpHTML, []byte(finalHTML), 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	// Generate PDF with headless Chrome
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuf []byte
	fileURL := "file://" + tmpHTML

	err = chromedp.Run(ctx,
		chromedp.Navigate(fileURL),
		chromedp.Sleep(1*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
