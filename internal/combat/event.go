package combat

import (
	"io/fs"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/starshatter/campaign/internal/util"
)

// EventSource is the channel an event is reported through.
type EventSource int

const (
	SourceUnknown EventSource = -1
	SourceForcom  EventSource = 0
	SourceTacnet  EventSource = 1
	SourceIntel   EventSource = 2
	SourceMail    EventSource = 3
	SourceNews    EventSource = 4
)

var sourceNames = [...]string{"FORCOM", "TACNET", "SECURE", "Mail", "News"}

// SourceName returns the display name of a source.
func SourceName(s EventSource) string {
	if s < SourceForcom || s > SourceNews {
		return "Unknown"
	}
	return sourceNames[s]
}

// SourceFromName returns the source whose display name matches, ignoring
// case, or SourceUnknown.
func SourceFromName(name string) EventSource {
	for s := SourceForcom; s <= SourceNews; s++ {
		if strings.EqualFold(name, SourceName(s)) {
			return s
		}
	}
	return SourceUnknown
}

func (s EventSource) String() string { return SourceName(s) }

// EventType classifies what happened.
type EventType int

const (
	EventUnknown       EventType = -1
	EventAttack        EventType = 0
	EventDefend        EventType = 1
	EventMoveTo        EventType = 2
	EventCapture       EventType = 3
	EventStrategy      EventType = 4
	EventStory         EventType = 5
	EventCampaignStart EventType = 6
	EventCampaignEnd   EventType = 7
	EventCampaignFail  EventType = 8
)

var eventTypeNames = [...]string{
	"ATTACK", "DEFEND", "MOVE_TO", "CAPTURE", "STRATEGY", "STORY",
	"CAMPAIGN_START", "CAMPAIGN_END", "CAMPAIGN_FAIL",
}

// TypeName returns the mnemonic of an event type.
func TypeName(t EventType) string {
	if t < EventAttack || t > EventCampaignFail {
		return "Unknown"
	}
	return eventTypeNames[t]
}

// TypeFromName returns the event type whose mnemonic matches, ignoring
// case, or EventUnknown.
func TypeFromName(name string) EventType {
	for t := EventAttack; t <= EventCampaignFail; t++ {
		if strings.EqualFold(name, TypeName(t)) {
			return t
		}
	}
	return EventUnknown
}

func (t EventType) String() string { return TypeName(t) }

// UnknownGroup replaces $GROUP when the player has no combat group.
const UnknownGroup = "Unknown Group"

// EventSpec carries the fields fixed when an event is created.
type EventSpec struct {
	Type      EventType
	Time      int64
	Team      int
	Source    EventSource
	Region    string
	Title     string
	Info      string
	File      string
	ImageFile string
	SceneFile string
	Points    int
}

// Event records something that happened in the campaign. Its identity is
// fixed at creation; only Points and Visited change afterwards, and Info is
// resolved lazily by Load.
type Event struct {
	ctx Context

	id        string
	typ       EventType
	time      int64
	team      int
	source    EventSource
	region    string
	title     string
	info      string
	file      string
	imageFile string
	sceneFile string
	image     []byte

	Points  int
	Visited bool
}

// NewEvent creates an event bound to the campaign ctx.
func NewEvent(ctx Context, spec EventSpec) *Event {
	return &Event{
		ctx:       ctx,
		id:        uuid.NewString(),
		typ:       spec.Type,
		time:      spec.Time,
		team:      spec.Team,
		source:    spec.Source,
		region:    spec.Region,
		title:     spec.Title,
		info:      spec.Info,
		file:      spec.File,
		imageFile: spec.ImageFile,
		sceneFile: spec.SceneFile,
		Points:    spec.Points,
	}
}

func (e *Event) ID() string          { return e.id }
func (e *Event) Type() EventType     { return e.typ }
func (e *Event) Time() int64         { return e.time }
func (e *Event) Team() int           { return e.team }
func (e *Event) Source() EventSource { return e.source }
func (e *Event) Region() string      { return e.region }
func (e *Event) Title() string       { return e.title }
func (e *Event) Info() string        { return e.info }
func (e *Event) File() string        { return e.file }
func (e *Event) ImageFile() string   { return e.imageFile }
func (e *Event) SceneFile() string   { return e.sceneFile }
func (e *Event) Image() []byte       { return e.image }
func (e *Event) ImageLoaded() bool   { return e.image != nil }

// Load resolves the info text and, for in-campaign events, the image.
func (e *Event) Load() {
	if e.info == "" && e.file != "" {
		e.info = e.readContent()
	}

	if strings.Contains(e.info, "$") {
		e.info = e.substitute(e.info)
	}

	// campaign markers sit at the end of the type range and carry no image
	if e.typ < EventCampaignStart && e.imageFile != "" && e.image == nil {
		e.loadImage()
	}
}

func (e *Event) substitute(text string) string {
	group := UnknownGroup
	if e.ctx != nil {
		if player := e.ctx.Player(); player != nil {
			text = strings.ReplaceAll(text, "$NAME", player.Name)
			text = strings.ReplaceAll(text, "$RANK", RankName(player.Rank))
		}
		if g := e.ctx.PlayerGroup(); g != nil {
			group = g.Description()
		}
	}
	text = strings.ReplaceAll(text, "$GROUP", group)
	if e.ctx != nil {
		text = strings.ReplaceAll(text, "$TIME", util.FormatDayTime(e.ctx.Time()))
	}
	return text
}

func (e *Event) readContent() string {
	data, err := e.readFile(e.file)
	if err != nil {
		return "[" + e.file + "]"
	}
	return string(data)
}

func (e *Event) loadImage() {
	data, err := e.readFile(e.imageFile)
	if err == nil {
		e.image = data
	}
}

func (e *Event) readFile(name string) ([]byte, error) {
	if e.ctx == nil || e.ctx.Content() == nil {
		return nil, fs.ErrNotExist
	}
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, `\`, "/")), "/")
	return fs.ReadFile(e.ctx.Content(), name)
}
