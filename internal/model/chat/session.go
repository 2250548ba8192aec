package chat

import "fmt"

// Panel is the auxiliary view currently overlaid on the conversation.
type Panel string

const (
	PanelNone       Panel = ""
	PanelMoodChart  Panel = "mood_chart"
	PanelResources  Panel = "resources"
	PanelEmergency  Panel = "emergency"
	PanelRelaxation Panel = "relaxation"
	PanelArticles   Panel = "articles"
)

// Panels lists the toggleable panels.
func Panels() []Panel {
	return []Panel{PanelMoodChart, PanelResources, PanelEmergency, PanelRelaxation, PanelArticles}
}

// ParsePanel validates a panel name coming from a client.
func ParsePanel(raw string) (Panel, error) {
	p := Panel(raw)
	for _, known := range Panels() {
		if p == known {
			return p, nil
		}
	}
	return PanelNone, fmt.Errorf("unknown panel %q", raw)
}

// TurnState tracks a single user turn from submission to reply.
type TurnState string

const (
	StateIdle                   TurnState = "idle"
	StateAwaitingClassification TurnState = "awaiting_classification"
	StateAwaitingGeneration     TurnState = "awaiting_generation"
	StateAwaitingTranslation    TurnState = "awaiting_translation"
	StateSettled                TurnState = "settled"
)

// AdvisoryActionShowResources asks the UI to offer the resources panel.
const AdvisoryActionShowResources = "show_resources"

// Advisory is the escalation notice raised after a strongly negative turn.
type Advisory struct {
	MessageID string  `json:"messageId"`
	Text      string  `json:"text"`
	Action    string  `json:"action"`
	Polarity  float64 `json:"polarity"`
}

// Preferences are the session settings that survive a restart.
type Preferences struct {
	PersistenceEnabled bool   `json:"persistenceEnabled"`
	Topic              string `json:"topic"`
}
