package dialogue

// Stage is the slot-filling state of an in-progress booking conversation.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageService       Stage = "awaiting_service"
	StageDate          Stage = "awaiting_date"
	StageTime          Stage = "awaiting_time"
	StageName          Stage = "awaiting_name"
	StagePhone         Stage = "awaiting_phone"
	StageConfirm       Stage = "awaiting_confirmation"
	StageEditChoice    Stage = "awaiting_edit_choice"
	StageCancelConfirm Stage = "awaiting_cancel_confirmation"
	StageCompleted     Stage = "completed"
)

// active reports whether the stage is mid-flow, i.e. the classifier should
// bias free text toward a slot-fill answer.
func (s Stage) active() bool {
	switch s {
	case "", StageIdle, StageCompleted:
		return false
	}
	return true
}

// DraftBooking is the session-scoped value object the caller threads through
// consecutive planning calls. It is never persisted by the engine itself.
type DraftBooking struct {
	Stage     Stage  `json:"stage"`
	ServiceID string `json:"service_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// OfferedSlots is the slot list most recently shown to the user; a time
	// answer is only valid if it is still in this list.
	OfferedSlots []string `json:"offered_slots,omitempty"`

	// EditID marks the draft as an edit of an existing appointment rather
	// than a fresh booking. PendingDate holds a validated new date while the
	// edit still needs a time on that date.
	EditID      string `json:"edit_id,omitempty"`
	PendingDate string `json:"pending_date,omitempty"`
}

// NewDraft returns an idle draft.
func NewDraft() *DraftBooking {
	return &DraftBooking{Stage: StageIdle}
}

func (d *DraftBooking) editing() bool {
	return d != nil && d.EditID != ""
}

// reset clears all collected fields and returns the draft to idle.
func (d *DraftBooking) reset() {
	*d = DraftBooking{Stage: StageIdle}
}
