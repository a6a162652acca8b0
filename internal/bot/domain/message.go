package domain

// InboundMessage is one chat message delivered by the gateway webhook.
type InboundMessage struct {
	Device   string `json:"device"`
	Sender   string `json:"sender"`
	Message  string `json:"message"`
	Name     string `json:"name,omitempty"`
	Member   string `json:"member,omitempty"`
	Location string `json:"location,omitempty"`
	File     string `json:"file,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type BodyKind string

const (
	BodyText  BodyKind = "text"
	BodyImage BodyKind = "image"
)

// OutboundMessage is constructed per reply and discarded after sending.
type OutboundMessage struct {
	Target   string
	Kind     BodyKind
	Text     string
	ImageURL string
	Caption  string
}

func Text(target, text string) OutboundMessage {
	return OutboundMessage{Target: target, Kind: BodyText, Text: text}
}

func Image(target, url, caption string) OutboundMessage {
	return OutboundMessage{Target: target, Kind: BodyImage, ImageURL: url, Caption: caption}
}

// DeliveryResult reports the gateway's verdict on one send.
type DeliveryResult struct {
	Delivered bool
	MessageID string
	Reason    string
}
