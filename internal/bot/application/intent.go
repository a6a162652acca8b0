package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	botdomain "github.com/paybot-id/paybot/internal/bot/domain"
	"github.com/paybot-id/paybot/internal/config"
	paydomain "github.com/paybot-id/paybot/internal/payment/domain"
)

// Router classifies inbound chat messages by keyword and produces the
// reply. The payment intent is the only one with a side effect beyond the
// reply send: it creates one order at the payment gateway.
type Router struct {
	log       *slog.Logger
	messenger Messenger
	payments  PaymentGateway
	payment   config.PaymentConfig
	now       func() time.Time
}

func NewRouter(log *slog.Logger, messenger Messenger, payments PaymentGateway, payment config.PaymentConfig) *Router {
	return &Router{
		log:       log,
		messenger: messenger,
		payments:  payments,
		payment:   payment,
		now:       time.Now,
	}
}

// Handle computes the reply for one inbound message and sends it. The
// reply text is returned for the webhook response body; send failures are
// logged but never surfaced to the chat gateway.
func (r *Router) Handle(ctx context.Context, in botdomain.InboundMessage) string {
	text := strings.ToLower(in.Message)

	switch {
	case strings.Contains(text, "bayar"):
		return r.handlePayment(ctx, in)
	case strings.Contains(text, "cek") || strings.Contains(text, "status"):
		return r.handleStatusCheck(ctx, in)
	case strings.Contains(text, "halo") || strings.Contains(text, "hi"):
		return r.reply(ctx, in.Sender, greetingMessage(displayName(in)))
	case strings.Contains(text, "help") || strings.Contains(text, "bantuan"):
		return r.reply(ctx, in.Sender, helpMessage)
	case strings.Contains(text, "produk"):
		return r.reply(ctx, in.Sender, productMessage)
	default:
		return r.reply(ctx, in.Sender, fallbackMessage(in.Message))
	}
}

func (r *Router) handlePayment(ctx context.Context, in botdomain.InboundMessage) string {
	refID := paydomain.EncodeReference(in.Sender, r.now())

	order, err := r.payments.CreateOrder(ctx, refID, r.payment.Amount, r.payment.Channel)
	if err != nil {
		r.log.Error("order creation failed", "sender", in.Sender, "ref_id", refID, "err", err)
		return r.reply(ctx, in.Sender, paymentApologyMessage)
	}

	reply := paymentCreatedMessage(order)
	if order.QRLink != "" {
		if res, err := r.messenger.SendImage(ctx, in.Sender, order.QRLink, reply); err == nil && res.Delivered {
			return reply
		} else if err != nil {
			r.log.Warn("qr image send failed, degrading to text", "sender", in.Sender, "err", err)
		} else {
			r.log.Warn("qr image send declined, degrading to text", "sender", in.Sender, "reason", res.Reason)
		}
	}
	return r.reply(ctx, in.Sender, reply)
}

func (r *Router) handleStatusCheck(ctx context.Context, in botdomain.InboundMessage) string {
	refID, phone, found := findReference(in.Message)
	if !found {
		return r.reply(ctx, in.Sender, statusHelpMessage)
	}
	if phone != in.Sender {
		r.log.Warn("status check for foreign reference refused", "sender", in.Sender, "ref_id", refID)
		return r.reply(ctx, in.Sender, statusForeignMessage)
	}

	status, err := r.payments.CheckStatus(ctx, refID)
	if err != nil {
		r.log.Error("status check failed", "ref_id", refID, "err", err)
		return r.reply(ctx, in.Sender, statusApologyMessage)
	}
	return r.reply(ctx, in.Sender, statusReplyMessage(refID, status))
}

// findReference scans the message for a token in the issued reference
// format and returns it with its decoded phone number.
func findReference(message string) (refID, phone string, found bool) {
	for _, tok := range strings.Fields(message) {
		if p, ok := paydomain.DecodeReference(tok); ok {
			return tok, p, true
		}
	}
	return "", "", false
}

func (r *Router) reply(ctx context.Context, target, message string) string {
	if _, err := r.messenger.SendText(ctx, target, message); err != nil {
		r.log.Error("reply send failed", "target", target, "err", err)
	}
	return message
}

func displayName(in botdomain.InboundMessage) string {
	if in.Name != "" {
		return in.Name
	}
	return in.Sender
}

func greetingMessage(name string) string {
	return fmt.Sprintf("Halo %s! 👋 Gimana kabarnya?", name)
}

const helpMessage = `Aku bisa bantu kamu dengan:
• Info produk — ketik "produk"
• Pembayaran — ketik "bayar"
• Cek transaksi — ketik "cek <id transaksi>"
• Customer service
• Pertanyaan umum

Ketik aja yang kamu butuhin!`

const productMessage = `📦 Produk kami:
• Produk A - Rp 100.000
• Produk B - Rp 150.000
• Produk C - Rp 200.000

Mau tau lebih detail yang mana?`

const paymentApologyMessage = `😔 Maaf, lagi ada kendala bikin link pembayaran.

Coba lagi beberapa saat ya, atau hubungi customer service kalau masih gagal.`

const statusHelpMessage = `Buat cek transaksi, kirim: cek <id transaksi>

Contoh: cek payment_628123456789_1700000000000`

const statusForeignMessage = `Maaf, kamu cuma bisa cek transaksi milikmu sendiri ya 🙏`

const statusApologyMessage = `😔 Maaf, lagi nggak bisa cek status transaksi. Coba lagi sebentar lagi ya.`

func statusReplyMessage(refID, status string) string {
	return fmt.Sprintf(`🔍 *Status Transaksi*

🔗 ID Transaksi: %s
📌 Status: %s`, refID, status)
}

func paymentCreatedMessage(order paydomain.Order) string {
	payURL := order.PayURL
	if payURL == "" {
		payURL = "(link menyusul, hubungi CS kalau belum terima)"
	}
	qrNote := "🖼️ QR pembayaran dikirim di atas ya!"
	if order.QRLink == "" {
		qrNote = "QR belum tersedia, pakai link pembayaran aja ya."
	}
	return fmt.Sprintf(`🛒 *Pembayaran Dibuat!*

💰 Total: Rp %s
🏦 Metode: %s
🔗 Link Pembayaran: %s
🆔 ID Transaksi: %s

%s

Selesaikan pembayaran, nanti aku kabari begitu masuk! 😊`,
		formatRupiah(order.Amount), order.Channel, payURL, order.ReferenceID, qrNote)
}

func fallbackMessage(original string) string {
	return fmt.Sprintf(`Terima kasih pesannya: "%s"

Aku sedang belajar jadi maaf kalo belum bisa jawab dengan baik. Coba ketik "help" untuk bantuan! 🤖`, original)
}

func formatRupiah(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return b.String()
}
