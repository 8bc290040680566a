package i18n

// defaults backs every label the page templates use.
var defaults = map[string]string{
	"words.course":                     "Course",
	"words.chapter":                    "Chapter",
	"words.part":                       "Part",
	"words.hours":                      "hours",
	"words.goal":                       "Goal",
	"words.description":                "Description",
	"words.level.beginner":             "Beginner",
	"words.level.intermediate":         "Intermediate",
	"words.level.advanced":             "Advanced",
	"words.level.expert":               "Expert",
	"words.level.level":                "Level",
	"courses.details.curriculum":       "Curriculum",
	"courses.details.objectives":       "Objectives",
	"courses.details.objectivesTitle":  "What you will learn:",
	"courses.details.taughtBy":         "This course is taught by",
	"courses.details.description":      "Description",
	"courses.details.learning":         "Learning path",
	"courses.quizz.quizz":              "Quiz",
	"courses.exam.answersReview":       "Answers review",
	"courses.exam.finalExam":           "Final exam",
	"courses.exam.explanations":        "Explanations",
	"courses.final.endOfCourse":        "End of",
	"courses.final.thankYouCompleting": "Thank you for completing this course.",
	"courses.final.leaveReview":        "If you enjoyed this course, please leave a review on the platform.",
	"courses.final.credits":            "Credits",
	"courses.final.teacher":            "Teacher",
	"courses.final.contributors":       "Contributors",
	"courses.final.proofreaders":       "Proofreaders",
	"courses.final.license":            "License",
	"courses.final.source":             "Source",
	"courses.final.contribute":         "If you want to contribute or make improvements, feel free to join our community or create a PR.",
	"courses.final.discoverMore":       "Discover more courses on",
	"courses.final.thankYouDedication": "Thank you for your dedication to Bitcoin study.",
	"courses.final.thankYouInstructor": "Thank you to the instructor who chose to use our free and open-source educational content.",
}
