package users

import (
	"fmt"
	"time"

	"vms-backend/internal/auth"
	"vms-backend/internal/database"
	"vms-backend/internal/ledger"
	"vms-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/admin/:admin_uuid/user/:user_id/statement
//
// Builds an xlsx statement for one user: a Debits sheet with the raw and
// derived columns, a Credits sheet, and a Summary sheet with the sum/deficit
// calculation.
func ExportUserStatementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		userID, err := c.ParamsInt("user_id")
		if err != nil || userID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		user, err := ledger.GetUser(database.DB, adminID, uint(userID))
		if err != nil {
			return ledgerError(err, "User not found")
		}
		records, err := ledger.UserRecords(database.DB, adminID, user.ID)
		if err != nil {
			return ledgerError(err, "User not found")
		}
		calc, err := ledger.UserSumDeficit(database.DB, adminID, user.ID)
		if err != nil {
			return ledgerError(err, "User not found")
		}

		f := excelize.NewFile()
		defer f.Close()

		f.SetSheetName("Sheet1", "Debits")
		if _, err := f.NewSheet("Credits"); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Statement could not be generated")
		}
		if _, err := f.NewSheet("Summary"); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Statement could not be generated")
		}

		debitHeaders := []string{"Date", "Bags", "Product", "Kg", "Cut Weight", "Net Weight", "Amount/Kg", "Rough Amount", "Tax", "Levy", "Net Amount"}
		for i, h := range debitHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue("Debits", cell, h)
		}
		creditHeaders := []string{"Date", "Credit Amount", "Round Off"}
		for i, h := range creditHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue("Credits", cell, h)
		}

		debitRow, creditRow := 2, 2
		for _, r := range records {
			date := r.CreatedAt.Format("2006-01-02")
			if r.TransactionType == models.TransactionDebit {
				values := []interface{}{
					date, deref(r.Bags), derefStr(r.ProductType), derefF(r.Kg),
					derefF(r.CutWeight), derefF(r.NetWeight), derefF(r.AmountPerKg),
					derefF(r.RoughAmount), derefF(r.Tax), derefF(r.Levy), derefF(r.NetAmount),
				}
				for i, v := range values {
					cell, _ := excelize.CoordinatesToCellName(i+1, debitRow)
					f.SetCellValue("Debits", cell, v)
				}
				debitRow++
			} else {
				values := []interface{}{date, derefF(r.CreditAmount), derefF(r.RoundOff)}
				for i, v := range values {
					cell, _ := excelize.CoordinatesToCellName(i+1, creditRow)
					f.SetCellValue("Credits", cell, v)
				}
				creditRow++
			}
		}

		summary := [][]interface{}{
			{"User", user.FullName()},
			{"Mobile", user.Mobile},
			{"Generated", time.Now().Format("2006-01-02 15:04:05")},
			{"Total Debit", calc.TotalDebit},
			{"Total Credit", calc.TotalCredit},
			{"Sum/Deficit", calc.SumDeficit},
			{"Status", calc.Status},
		}
		for row, pair := range summary {
			for col, v := range pair {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
				f.SetCellValue("Summary", cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Statement could not be generated")
		}

		filename := fmt.Sprintf("statement_%s_%s.xlsx", user.FirstName, time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

func deref(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefF(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func derefStr(v *string) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
