package dashboard

import (
	"io"

	"github.com/tealeg/xlsx"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

// ExportOrders writes the current pending and active orders to w as an
// xlsx workbook, one sheet per list.
func (c *Controller) ExportOrders(w io.Writer) error {
	file := xlsx.NewFile()

	if err := addOrderSheet(file, "Pending", c.Pending()); err != nil {
		return err
	}
	if err := addOrderSheet(file, "Active", c.Active()); err != nil {
		return err
	}

	return file.Write(w)
}

func addOrderSheet(file *xlsx.File, name string, orders []models.OrderSummary) error {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return err
	}

	headers := []string{
		"Order Number", "Customer", "Fulfillment", "Status",
		"Total", "Address", "Created At",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(string(o.FulfillmentType))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.TotalAmount.StringFixed(2))
		row.AddCell().SetValue(o.AddressSnippet)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
