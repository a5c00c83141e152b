package domain

import "encoding/json"

// BlockCommon holds the fields shared by both block variants.
type BlockCommon struct {
	Time       string `json:"time"`
	Activities string `json:"activities"`
	Location   string `json:"location"`
	Cost       string `json:"cost"`
}

// Block is the tagged union of TimeBlock and EventBlock. The wire
// discriminant is isEventBlock.
type Block interface {
	Common() BlockCommon
	isBlock()
}

type TimeBlock struct {
	BlockCommon
}

func (b TimeBlock) Common() BlockCommon { return b.BlockCommon }
func (TimeBlock) isBlock()              {}

type EventDetails struct {
	Doors     string `json:"doors"`
	StartTime string `json:"startTime"`
	Duration  string `json:"duration"`
	TicketURL string `json:"ticketUrl"`
}

type EventBlock struct {
	BlockCommon
	EventDetails EventDetails
}

func (b EventBlock) Common() BlockCommon { return b.BlockCommon }
func (EventBlock) isBlock()              {}

func (b EventBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireBlock{
		BlockCommon:  b.BlockCommon,
		IsEventBlock: true,
		EventDetails: &b.EventDetails,
	})
}

type wireBlock struct {
	BlockCommon
	IsEventBlock bool          `json:"isEventBlock,omitempty"`
	EventDetails *EventDetails `json:"eventDetails,omitempty"`
}

// DecodeBlock decodes one slot, switching on isEventBlock. An empty or null
// slot decodes to an empty TimeBlock.
func DecodeBlock(raw json.RawMessage) (Block, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return TimeBlock{}, nil
	}
	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if !w.IsEventBlock {
		return TimeBlock{BlockCommon: w.BlockCommon}, nil
	}
	eb := EventBlock{BlockCommon: w.BlockCommon}
	if w.EventDetails != nil {
		eb.EventDetails = *w.EventDetails
	}
	return eb, nil
}

// IsEventBlock reports whether b is the EventBlock variant.
func IsEventBlock(b Block) bool {
	switch b.(type) {
	case EventBlock, *EventBlock:
		return true
	default:
		return false
	}
}
