package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// CustomerAccount is the source of the inbound row derived from a sale.
	CustomerAccount = "Customer"
	// SupplierAccount is the destination of the outbound row derived from a sale.
	SupplierAccount = "Supplier"
)

// SaleRecord represents one business sale
type SaleRecord struct {
	Date             time.Time
	Product          string
	Quantity         decimal.Decimal
	UnitSalePrice    decimal.Decimal
	UnitCost         decimal.Decimal
	ReceivingAccount string
	PayingAccount    string
	Note             string
}

// SalesColumns is the column order of the business-sales table.
var SalesColumns = []string{
	"date", "product", "quantity", "unit_sale_price", "unit_cost",
	"profit", "receiving_account", "paying_account", "note",
}

func (s SaleRecord) TotalSale() decimal.Decimal {
	return s.Quantity.Mul(s.UnitSalePrice)
}

func (s SaleRecord) TotalCost() decimal.Decimal {
	return s.Quantity.Mul(s.UnitCost)
}

// Profit is TotalSale minus TotalCost. A loss comes out negative.
func (s SaleRecord) Profit() decimal.Decimal {
	return s.TotalSale().Sub(s.TotalCost())
}

// Row returns the sale as ordered business-sales table values.
func (s SaleRecord) Row() []any {
	return []any{
		s.Date.Format(DateLayout),
		s.Product,
		s.Quantity,
		s.UnitSalePrice,
		s.UnitCost,
		s.Profit(),
		s.ReceivingAccount,
		s.PayingAccount,
		s.Note,
	}
}

// Entries converts the sale into its cash effects: money in from the
// customer first, then money out to the supplier.
func (s SaleRecord) Entries() [2]LedgerEntry {
	return [2]LedgerEntry{
		{
			Date:          s.Date,
			Direction:     Inbound,
			Category:      "Penjualan " + s.Product,
			SourceAccount: CustomerAccount,
			DestAccount:   s.ReceivingAccount,
			Amount:        s.TotalSale(),
			Note:          s.Note,
		},
		{
			Date:          s.Date,
			Direction:     Outbound,
			Category:      "Modal " + s.Product,
			SourceAccount: s.PayingAccount,
			DestAccount:   SupplierAccount,
			Amount:        s.TotalCost(),
			Note:          s.Note,
		},
	}
}
