// README: Versioned JSON wire format for plans (HTTP payloads and stored rows).
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WireVersion is written into every encoded plan.
const WireVersion = 1

// BlockTimeLayout is the wall-clock format of block start/end on the wire.
const BlockTimeLayout = "2006-01-02T15:04:05"

var ErrUnsupportedVersion = errors.New("unsupported plan wire version")

type Document struct {
	Version     int           `json:"version"`
	ID          string        `json:"id"`
	Destination string        `json:"destination"`
	Source      Source        `json:"source"`
	Days        []DayDocument `json:"days"`
	Assumptions []string      `json:"assumptions"`
	RiskFlags   []string      `json:"riskFlags"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type DayDocument struct {
	Date    string          `json:"date"`
	Theme   string          `json:"theme,omitempty"`
	Summary string          `json:"summary,omitempty"`
	Blocks  []BlockDocument `json:"blocks"`
}

type BlockDocument struct {
	Type        BlockType `json:"type"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	IsAnchor    bool      `json:"isAnchor"`
	Priority    int       `json:"priority"`
	Description string    `json:"description,omitempty"`
}

func ToDocument(r PlanResult) Document {
	doc := Document{
		Version:     WireVersion,
		ID:          r.ID.String(),
		Destination: r.Destination,
		Source:      r.Source,
		Days:        make([]DayDocument, 0, len(r.Days)),
		Assumptions: nonNil(r.Assumptions),
		RiskFlags:   nonNil(r.RiskFlags),
		CreatedAt:   r.CreatedAt,
	}
	for _, d := range r.Days {
		doc.Days = append(doc.Days, ToDayDocument(d))
	}
	return doc
}

func ToDayDocument(d DayPlan) DayDocument {
	out := DayDocument{Date: d.Date, Theme: d.Theme, Summary: d.Summary, Blocks: make([]BlockDocument, 0, len(d.Blocks))}
	for _, b := range d.Blocks {
		out.Blocks = append(out.Blocks, BlockDocument{
			Type:        b.Type,
			Start:       b.Start.Format(BlockTimeLayout),
			End:         b.End.Format(BlockTimeLayout),
			Title:       b.Title,
			Location:    b.Location,
			IsAnchor:    b.IsAnchor,
			Priority:    b.Priority,
			Description: b.Description,
		})
	}
	return out
}

// FromDocument rebuilds a PlanResult, reading block times in loc.
func FromDocument(doc Document, loc *time.Location) (PlanResult, error) {
	if doc.Version != WireVersion {
		return PlanResult{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return PlanResult{}, fmt.Errorf("plan id: %w", err)
	}
	r := PlanResult{
		ID:          id,
		Destination: doc.Destination,
		Source:      doc.Source,
		Days:        make([]DayPlan, 0, len(doc.Days)),
		Assumptions: nonNil(doc.Assumptions),
		RiskFlags:   nonNil(doc.RiskFlags),
		CreatedAt:   doc.CreatedAt,
	}
	for _, dd := range doc.Days {
		d, err := FromDayDocument(dd, loc)
		if err != nil {
			return PlanResult{}, err
		}
		r.Days = append(r.Days, d)
	}
	return r, nil
}

func FromDayDocument(dd DayDocument, loc *time.Location) (DayPlan, error) {
	d := DayPlan{Date: dd.Date, Theme: dd.Theme, Summary: dd.Summary, Blocks: make([]TimeBlock, 0, len(dd.Blocks))}
	for i, bd := range dd.Blocks {
		start, err := time.ParseInLocation(BlockTimeLayout, bd.Start, loc)
		if err != nil {
			return DayPlan{}, fmt.Errorf("%w: day %s block %d start: %v", ErrInvalidDay, dd.Date, i, err)
		}
		end, err := time.ParseInLocation(BlockTimeLayout, bd.End, loc)
		if err != nil {
			return DayPlan{}, fmt.Errorf("%w: day %s block %d end: %v", ErrInvalidDay, dd.Date, i, err)
		}
		d.Blocks = append(d.Blocks, TimeBlock{
			Type:        bd.Type,
			Start:       start,
			End:         end,
			Title:       bd.Title,
			Location:    bd.Location,
			IsAnchor:    bd.IsAnchor,
			Priority:    bd.Priority,
			Description: bd.Description,
		})
	}
	return d, nil
}

func Encode(r PlanResult) ([]byte, error) {
	return json.Marshal(ToDocument(r))
}

func Decode(raw []byte, loc *time.Location) (PlanResult, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return PlanResult{}, fmt.Errorf("decode plan: %w", err)
	}
	return FromDocument(doc, loc)
}
