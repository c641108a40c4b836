package dialogue

// Action is the at-most-one booking side effect a plan instructs the caller
// to perform.
type Action string

const (
	ActionNone          Action = "none"
	ActionCreateBooking Action = "createBooking"
	ActionUpdateBooking Action = "updateBooking"
)

// SegmentType discriminates the message variants the UI renders verbatim.
type SegmentType string

const (
	SegmentText           SegmentType = "text"
	SegmentOptions        SegmentType = "options"
	SegmentBookingConfirm SegmentType = "bookingConfirm"
)

// MessageSegment is one typed chunk of the conversational response.
type MessageSegment struct {
	Type    SegmentType  `json:"type"`
	Text    string       `json:"text"`
	Options []string     `json:"options,omitempty"`
	Booking *BookingData `json:"booking,omitempty"`
}

// BookingData is the persistence payload attached to createBooking and
// updateBooking actions. Creates carry every field; updates carry the
// appointment ID plus only the fields that changed.
type BookingData struct {
	ID            string `json:"id,omitempty"`
	ServiceID     string `json:"service_id,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Plan is the full result of one planning turn.
type Plan struct {
	Action   Action           `json:"action"`
	Data     *BookingData     `json:"data,omitempty"`
	Messages []MessageSegment `json:"messages"`

	// Draft is the state the caller must thread into the next turn.
	Draft *DraftBooking `json:"draft"`

	// Language is the language the response was composed in.
	Language Language `json:"language"`
}

func textSegment(text string) MessageSegment {
	return MessageSegment{Type: SegmentText, Text: text}
}

func optionsSegment(text string, options []string) MessageSegment {
	return MessageSegment{Type: SegmentOptions, Text: text, Options: options}
}

func bookingConfirmSegment(text string, booking *BookingData) MessageSegment {
	return MessageSegment{Type: SegmentBookingConfirm, Text: text, Booking: booking}
}
