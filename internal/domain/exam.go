package domain

type ExamLevel string

const (
	LevelCAE ExamLevel = "CAE"
	LevelCPE ExamLevel = "CPE"
)

func (l ExamLevel) IsValid() bool {
	switch l {
	case LevelCAE, LevelCPE:
		return true
	}
	return false
}

func (l ExamLevel) String() string { return string(l) }

// FullName - официальное название экзамена для промпта и отчётов
func (l ExamLevel) FullName() string {
	switch l {
	case LevelCAE:
		return "C1 Advanced (CAE)"
	case LevelCPE:
		return "C2 Proficiency (CPE)"
	default:
		return string(l)
	}
}

type TaskType string

const (
	TaskEssay    TaskType = "essay"
	TaskProposal TaskType = "proposal"
	TaskReport   TaskType = "report"
	TaskReview   TaskType = "review"
	TaskLetter   TaskType = "letter"
)

var TaskTypes = []TaskType{TaskEssay, TaskProposal, TaskReport, TaskReview, TaskLetter}

func (t TaskType) IsValid() bool {
	switch t {
	case TaskEssay, TaskProposal, TaskReport, TaskReview, TaskLetter:
		return true
	}
	return false
}

func (t TaskType) String() string { return string(t) }
