package bus

// Event types published by a driving session.
const (
	TypeScorePoints     = "score.points"
	TypeScoreStatus     = "score.status"
	TypeSignalViolation = "signal.violation"
	TypeSignalState     = "signal.state"
)

// ScorePoints is sent for every periodic road sample that changed the score.
type ScorePoints struct {
	Delta  int64 `json:"delta"`
	Total  int64 `json:"total"`
	OnRoad bool  `json:"on_road"`
}

// ScoreStatus is sent once, when the game is won or failed.
type ScoreStatus struct {
	Status string `json:"status"`
	Points int64  `json:"points"`
}

// SignalViolation is sent once per red or yellow entry into a junction.
type SignalViolation struct {
	SignalID string `json:"signal_id"`
	Penalty  int64  `json:"penalty"`
	Total    int64  `json:"total"`
}

// SignalState is sent whenever a traffic light changes.
type SignalState struct {
	SignalID string `json:"signal_id"`
	State    string `json:"state"`
}
