package qa

import "encoding/json"

type Kind int

const (
	AnswerFound Kind = iota + 1
	NoTextFound
	NoConfidentAnswer
)

func (k Kind) String() string {
	switch k {
	case AnswerFound:
		return "answer_found"
	case NoTextFound:
		return "no_text_found"
	case NoConfidentAnswer:
		return "no_confident_answer"
	default:
		return "unknown"
	}
}

// Answer is a classified /ask reply. Confidence and Score keep the literal
// JSON number text so nothing is rounded on the way to the user.
type Answer struct {
	Kind       Kind
	Answer     string
	Confidence json.Number
	Score      json.Number
	Chunk      string
}

type UploadResult struct {
	// Handle is the server-side document name ("file"); empty when the API
	// does not return one or the session does not track handles.
	Handle string
}

// AskReply is the raw /ask body; pointers tell absent fields from zero values.
type AskReply struct {
	Answer     *string      `json:"answer"`
	Confidence *json.Number `json:"confidence"`
	Score      *json.Number `json:"score"`
	Chunk      *string      `json:"chunk"`
}
