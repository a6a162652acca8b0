package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Reference ids carry the recipient's phone number through the payment
// gateway and back: payment_<digits>_<unix millis>. The literal prefix lets
// decode reject ids this service never issued.
var referencePattern = regexp.MustCompile(`^payment_(\d+)_\d+$`)

func EncodeReference(phone string, t time.Time) string {
	return fmt.Sprintf("payment_%s_%d", phone, t.UnixMilli())
}

// DecodeReference recovers the phone number from a reference id. The
// second return is false when the id does not match the issued format;
// callers must stop processing rather than guess.
func DecodeReference(ref string) (string, bool) {
	m := referencePattern.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return m[1], true
}
