package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

// MenuExporter lists every menu item with its category name
type MenuExporter interface {
	ExportRows(ctx context.Context) ([]services.ExportRow, error)
}

var menuHeaders = []string{"ID", "Name", "Description", "Category", "Price", "Veg", "Active", "Image", "CreatedAt", "UpdatedAt"}

// BuildMenuSheet lays the rows out as a single "Menu" sheet
func BuildMenuSheet(rows []services.ExportRow) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Menu")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range menuHeaders {
		header.AddCell().SetValue(h)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetValue(r.Item.ID)
		row.AddCell().SetValue(r.Item.Name)
		row.AddCell().SetValue(r.Item.Description)
		row.AddCell().SetValue(r.CategoryName)
		row.AddCell().SetFloat(r.Item.Price)
		row.AddCell().SetBool(r.Item.IsVeg)
		row.AddCell().SetBool(r.Item.IsActive)
		row.AddCell().SetValue(r.Item.Image)
		row.AddCell().SetValue(r.Item.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(r.Item.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// ExportMenu streams the menu as an Excel workbook (Admin)
func ExportMenu(menu MenuExporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := menu.ExportRows(c.Request.Context())
		if err != nil {
			e := apperr.From(err)
			c.JSON(e.Status, gin.H{"error": e.Message, "code": e.Code})
			return
		}

		file, err := BuildMenuSheet(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		name := fmt.Sprintf("menu-%s.xlsx", time.Now().Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
