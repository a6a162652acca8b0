package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/paybot-id/paybot/internal/payment/domain"
)

func confirmedMessage(cb domain.Callback) string {
	return fmt.Sprintf(`🎉 *Pembayaran Berhasil!*

✅ Terima kasih sudah melakukan pembayaran
💰 Jumlah: Rp %s
🔗 ID Transaksi: %s
⏰ Dibayar: %s

📦 *Status Pesanan:*
🔄 Sedang diproses...

Kami akan segera memproses pesanan kamu. Terima kasih sudah berbelanja! 😊`,
		formatRupiah(cb.Amount), cb.ReferenceID, formatPaidAt(cb.PaidAt))
}

const processingMessage = `📦 *Update Pesanan*

🔄 Pesanan kamu sedang dalam proses pengemasan...
⏱️ Estimasi selesai: 10-15 menit

Harap tunggu ya! 😊`

const completedMessage = `✅ *Pesanan Selesai!*

🎊 Yeay! Pesanan kamu sudah selesai diproses
📦 Status: Siap untuk diambil/dikirim
🚀 Terima kasih sudah berbelanja dengan kami!

Semoga puas dengan pelayanan kami! 🙏`

func failedMessage(cb domain.Callback) string {
	return fmt.Sprintf(`❌ *Pembayaran Gagal*

Maaf, pembayaran kamu gagal diproses.
💰 Jumlah: Rp %s
🔗 ID Transaksi: %s

Silakan coba lagi atau hubungi customer service jika butuh bantuan.
Ketik "bayar" untuk mencoba pembayaran lagi.`,
		formatRupiah(cb.Amount), cb.ReferenceID)
}

func pendingMessage(cb domain.Callback) string {
	return fmt.Sprintf(`⏳ *Menunggu Pembayaran*

Pembayaran kamu sedang diproses...
💰 Jumlah: Rp %s
🔗 ID Transaksi: %s

Harap tunggu sebentar ya! 🙏`,
		formatRupiah(cb.Amount), cb.ReferenceID)
}

// formatRupiah renders an amount in minor units with Indonesian thousands
// separators: 1250000 -> "1.250.000".
func formatRupiah(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// formatPaidAt renders the gateway timestamp in Jakarta time; on parse
// failure the raw value is shown unchanged.
func formatPaidAt(paidAt string) string {
	ts, err := time.Parse(time.RFC3339, paidAt)
	if err != nil {
		return paidAt
	}
	wib := time.FixedZone("WIB", 7*60*60)
	ts = ts.In(wib)
	return fmt.Sprintf("%d %s %d, %02d.%02d", ts.Day(), indonesianMonths[ts.Month()-1], ts.Year(), ts.Hour(), ts.Minute())
}
