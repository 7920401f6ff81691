package domain

const (
	// MaxAnswers bounds the number of answer options on a question.
	MaxAnswers = 5
	// MaxQuestions bounds the number of questions on a quiz.
	MaxQuestions = 10
)

// User is the public view of an account; it never carries the password hash.
type User struct {
	UUID   string `json:"uuid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// UserRec is the stored form of a user.
type UserRec struct {
	User
	Hashed string `json:"hashed"`
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UUID   string
	Email  string
	Active bool
}

// Question is a reusable multiple choice question owned by its author.
type Question struct {
	UUID    string   `json:"uuid"`
	Owner   string   `json:"owner"`
	Text    string   `json:"text"`
	Answers []string `json:"answers"`
	Correct []bool   `json:"correct"` // parallel to Answers
}

// QuestionPatch carries a partial question update. A nil field keeps the stored value,
// a non-nil field replaces it, even when it points at an empty value.
type QuestionPatch struct {
	Text    *string   `json:"text"`
	Answers *[]string `json:"answers"`
	Correct *[]bool   `json:"correct"`
}

// CorrectCount returns how many answers are marked correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, c := range q.Correct {
		if c {
			n++
		}
	}
	return n
}

// Quiz is an ordered collection of question UUIDs. Publishing freezes it.
type Quiz struct {
	UUID      string   `json:"uuid"`
	Owner     string   `json:"owner"`
	Published bool     `json:"published"`
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

// QuizPatch carries a partial quiz update with the same nil semantics as QuestionPatch.
type QuizPatch struct {
	Title     *string   `json:"title"`
	Questions *[]string `json:"questions"`
	Published *bool     `json:"published"`
}

// Solution is a scored quiz attempt. Question texts are snapshotted so a solution
// stays readable after its quiz or questions are deleted.
type Solution struct {
	UUID      string   `json:"uuid"`
	User      string   `json:"user"`
	Quiz      string   `json:"quiz"`
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
	Scores    []int    `json:"scores"` // percentage per question
	Score     int      `json:"score"`  // overall percentage
}

// SolutionRec is a submission: the quiz being answered and one answer vector per question.
// Answers are only used for scoring and are never stored.
type SolutionRec struct {
	Quiz    string   `json:"quiz"`
	Answers [][]bool `json:"answers"`
}

// PublicationStatus classifies how a question is referenced by quizzes.
type PublicationStatus int

const (
	// Unused means no quiz references the question.
	Unused PublicationStatus = iota
	// ReferencedUnpublished means only unpublished quizzes reference the question.
	ReferencedUnpublished
	// Published means at least one published quiz references the question.
	Published
)

func (s PublicationStatus) String() string {
	switch s {
	case Published:
		return "published"
	case ReferencedUnpublished:
		return "unpublished"
	default:
		return "unused"
	}
}
