package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signer authenticates payment callbacks with the HMAC-SHA256 secret shared
// with the gateway.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) Signer {
	return Signer{secret: []byte(secret)}
}

func (s Signer) Sign(canonical string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback recomputes the signature over the callback's own fields.
// The canonical string is merchant_id:reference_id:amount:status; none of
// those fields can contain the delimiter under the gateway contract.
// Comparison is constant time.
func (s Signer) VerifyCallback(cb Callback) bool {
	canonical := fmt.Sprintf("%s:%s:%d:%s", cb.MerchantID, cb.ReferenceID, cb.Amount, cb.Status)
	expected := s.Sign(canonical)
	return hmac.Equal([]byte(expected), []byte(cb.Signature))
}
