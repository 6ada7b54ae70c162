package bot

import (
	"fmt"

	"github.com/sheikh-saqib/telegram-ledger-recorder/internal/models"
)

const helpText = "Halo! Saya bot pencatat keuangan pribadi + bisnis.\n\n" +
	"Format perintah (gunakan pemisah: | ):\n\n" +
	"1) Pemasukan:\n" +
	"/in TANGGAL | KATEGORI | KE_AKUN | NOMINAL | DESKRIPSI\n" +
	"Contoh:\n" +
	inExample + "\n\n" +
	"2) Pengeluaran:\n" +
	"/out TANGGAL | KATEGORI | DARI_AKUN | NOMINAL | DESKRIPSI\n" +
	"Contoh:\n" +
	outExample + "\n\n" +
	"3) Penjualan bisnis:\n" +
	"/sale TANGGAL | PRODUK | QTY | HARGA_JUAL_PER_UNIT | MODAL_PER_UNIT | AKUN_TERIMA | AKUN_BAYAR | CATATAN\n" +
	"Contoh:\n" +
	saleExample + "\n\n" +
	"Data akan otomatis masuk ke Google Sheets dan terhubung ke ringkasan & saldo akun."

const (
	inExample   = "/in 2025-11-17 | gaji | BCA | 5000000 | gaji november"
	outExample  = "/out 2025-11-18 | makan | Dana | 25000 | nasi goreng"
	saleExample = "/sale 2025-11-19 | kaos hitam | 2 | 75000 | 50000 | Dana | BCA | order ig @abc"

	persistFailedText = "Gagal menulis ke Google Sheets. Cek log & konfigurasi."
	saleNumbersText   = "Qty, harga jual per unit, dan modal per unit harus berupa angka."
)

func usageText(example string) string {
	return "Format salah.\nContoh:\n" + example
}

func invalidDateText(example string) string {
	return "Format tanggal harus YYYY-MM-DD, contoh: " + example
}

func invalidAmountText(example string) string {
	return fmt.Sprintf("Nominal harus angka. Contoh: %s atau %s.5", example, example)
}

func inboundRecordedText(e models.LedgerEntry) string {
	return fmt.Sprintf("Pemasukan dicatat:\n- Tanggal: %s\n- Kategori: %s\n- Ke akun: %s\n- Nominal: %s",
		e.Date.Format(models.DateLayout), e.Category, e.DestAccount, e.Amount)
}

func outboundRecordedText(e models.LedgerEntry) string {
	return fmt.Sprintf("Pengeluaran dicatat:\n- Tanggal: %s\n- Kategori: %s\n- Dari akun: %s\n- Nominal: %s",
		e.Date.Format(models.DateLayout), e.Category, e.SourceAccount, e.Amount)
}

func saleRecordedText(s models.SaleRecord) string {
	return "Penjualan bisnis dicatat:\n" +
		fmt.Sprintf("- Produk : %s\n", s.Product) +
		fmt.Sprintf("- Qty    : %s\n", s.Quantity) +
		fmt.Sprintf("- Total jual : %s\n", s.TotalSale()) +
		fmt.Sprintf("- Total modal: %s\n", s.TotalCost()) +
		fmt.Sprintf("- Profit     : %s\n", s.Profit()) +
		fmt.Sprintf("- Terima di  : %s\n", s.ReceivingAccount) +
		fmt.Sprintf("- Bayar dari : %s", s.PayingAccount)
}
