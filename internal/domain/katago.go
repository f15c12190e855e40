package domain

// Stone is a [color, GTP coordinate] pair, e.g. ["B", "D4"].
type Stone [2]string

// MovesDict restricts the moves one player may search, up to a depth.
type MovesDict struct {
	Player     string   `json:"player"`
	Moves      []string `json:"moves"`
	UntilDepth int      `json:"untilDepth"`
}

// AnalysisRequest is one query of the KataGo analysis engine.
type AnalysisRequest struct {
	ID               string      `json:"id"`
	Moves            []Stone     `json:"moves"` // [["b","D4"], ["w","Q16"], ...]
	InitialStones    []Stone     `json:"initialStones,omitempty"`
	InitialPlayer    string      `json:"initialPlayer,omitempty"`
	Rules            string      `json:"rules"`
	Komi             float64     `json:"komi"`
	BoardXSize       int         `json:"boardXSize"`
	BoardYSize       int         `json:"boardYSize"`
	AnalyzeTurns     []int       `json:"analyzeTurns,omitempty"`
	MaxVisits        int         `json:"maxVisits,omitempty"`
	IncludeOwnership bool        `json:"includeOwnership,omitempty"`
	IncludePolicy    bool        `json:"includePolicy,omitempty"`
	AllowMoves       []MovesDict `json:"allowMoves,omitempty"`
	AvoidMoves       []MovesDict `json:"avoidMoves,omitempty"`
	Priority         int         `json:"priority,omitempty"`
}

// Ответ KataGo с анализом позиции
type AnalysisResponse struct {
	ID             string     `json:"id"`
	TurnNumber     int        `json:"turnNumber"`
	IsDuringSearch bool       `json:"isDuringSearch"`
	RootInfo       RootInfo   `json:"rootInfo"`
	MoveInfos      []MoveInfo `json:"moveInfos"`
	Ownership      []float64  `json:"ownership,omitempty"`
	Policy         []float64  `json:"policy,omitempty"`

	// KataGo answers a rejected query with error (and the offending field)
	// instead of an analysis.
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
	Field   string `json:"field,omitempty"`
}

// Информация о корневой позиции (общая информация)
type RootInfo struct {
	CurrentPlayer string  `json:"currentPlayer"` // "W" или "B"
	Winrate       float64 `json:"winrate"`
	ScoreLead     float64 `json:"scoreLead"`
	ScoreSelfplay float64 `json:"scoreSelfplay"`
	ScoreStdev    float64 `json:"scoreStdev"`
	Utility       float64 `json:"utility"`
	Visits        int     `json:"visits"`
}

// Информация о возможных ходах (вариантах)
type MoveInfo struct {
	Move      string   `json:"move"`
	Winrate   float64  `json:"winrate"`
	Visits    int      `json:"visits"`
	ScoreLead float64  `json:"scoreLead"`
	Prior     float64  `json:"prior"`
	Order     int      `json:"order"`
	PV        []string `json:"pv"` // Principal Variation (последовательность ходов)
}

// Verdict is the judgement of one frame under one ko regime.
type Verdict struct {
	KoAllowed  bool    `json:"ko_allowed" bson:"ko_allowed"`
	ToKill     bool    `json:"to_kill" bson:"to_kill"`
	Correct    bool    `json:"correct" bson:"correct"`
	Winrate    float64 `json:"winrate" bson:"winrate"`
	ScoreLead  float64 `json:"score_lead" bson:"score_lead"`
	Visits     int     `json:"visits" bson:"visits"`
	BestMove   string  `json:"best_move,omitempty" bson:"best_move,omitempty"`
	FrameColor string  `json:"frame_color" bson:"frame_color"`
}
