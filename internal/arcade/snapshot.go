package arcade

// Snapshot is a read-only projection of a session for transport. It never
// carries answers the player has not earned: correct options stay hidden,
// face-down tiles have no content and timeline years appear only once the
// session is finished.
type Snapshot struct {
	SessionID      string      `json:"sessionId"`
	GameID         string      `json:"gameId"`
	UserID         string      `json:"userId"`
	Title          string      `json:"title"`
	Variant        Variant     `json:"variant"`
	Phase          Phase       `json:"phase"`
	ElapsedSeconds int         `json:"elapsedSeconds"`
	Elapsed        string      `json:"elapsed"`
	RewardPoints   int         `json:"rewardPoints"`
	Outcome        *Outcome    `json:"outcome,omitempty"`
	Reward         RewardState `json:"reward"`
	Closed         bool        `json:"closed,omitempty"`

	Quiz          *QuizView          `json:"quiz,omitempty"`
	Trivial       *TrivialView       `json:"trivial,omitempty"`
	Memory        *MemoryView        `json:"memory,omitempty"`
	Timeline      *TimelineView      `json:"timeline,omitempty"`
	HiddenObjects *HiddenObjectsView `json:"hiddenObjects,omitempty"`
}

type QuestionView struct {
	ID       string       `json:"id"`
	Kind     QuestionKind `json:"kind"`
	Prompt   string       `json:"prompt"`
	Options  []string     `json:"options"`
	Category Category     `json:"category,omitempty"`
}

type QuizView struct {
	Index      int          `json:"index"`
	Total      int          `json:"total"`
	Question   QuestionView `json:"question"`
	Selected   []int        `json:"selected"`
	Advancing  bool         `json:"advancing"`
	CanAdvance bool         `json:"canAdvance"`
}

type TrivialStage string

const (
	TrivialBoard    TrivialStage = "board"
	TrivialQuestion TrivialStage = "question"
)

type TrivialView struct {
	Stage      TrivialStage  `json:"stage"`
	Categories []Category    `json:"categories"`
	Earned     []Category    `json:"earned"`
	Question   *QuestionView `json:"question,omitempty"`
	LastResult *bool         `json:"lastResult,omitempty"`
}

type MemoryTile struct {
	Index   int    `json:"index"`
	FaceUp  bool   `json:"faceUp"`
	Matched bool   `json:"matched"`
	Content string `json:"content,omitempty"`
}

type MemoryView struct {
	Tiles        []MemoryTile `json:"tiles"`
	Moves        int          `json:"moves"`
	Pairs        int          `json:"pairs"`
	MatchedPairs int          `json:"matchedPairs"`
}

type TimelineEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Year *int   `json:"year,omitempty"`
}

type TimelineView struct {
	Order            []TimelineEntry `json:"order"`
	ValidationFailed bool            `json:"validationFailed"`
}

type HiddenTarget struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Question string `json:"question"`
}

type FoundObject struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type HiddenObjectsView struct {
	BackgroundImage string        `json:"backgroundImage"`
	Pending         *HiddenTarget `json:"pending,omitempty"`
	Found           []FoundObject `json:"found"`
	Total           int           `json:"total"`
}

func questionView(q Question) QuestionView {
	return QuestionView{
		ID:       q.ID,
		Kind:     q.Kind,
		Prompt:   q.Prompt,
		Options:  append([]string(nil), q.Options...),
		Category: q.Category,
	}
}
