package generate

import (
	"fmt"
	"strings"
)

// Exam identifies the examination the prompts are written for.
type Exam struct {
	Short string // e.g. "JEE"
	Full  string // e.g. "Indian Joint Entrance Examination (JEE)"
}

// DefaultExam is JEE.
var DefaultExam = Exam{Short: "JEE", Full: "Indian Joint Entrance Examination (JEE)"}

// ExamFor returns the known exam for a short name, or an exam whose full name
// is the short name.
func ExamFor(short string) Exam {
	short = strings.TrimSpace(short)
	switch strings.ToUpper(short) {
	case "", "JEE":
		return DefaultExam
	case "NEET":
		return Exam{Short: "NEET", Full: "National Eligibility cum Entrance Test (NEET)"}
	}
	return Exam{Short: short, Full: short}
}

const roadmapExample = `{
    "Limits, Continuity & Differentiability": [
        "Limits of Functions",
        "Continuity",
        "Differentiability",
        {"Mean Value Theorems": ["Rolle's Theorem", "Lagrange's MVT"]}
    ],
    "Applications of Derivatives": [
        "Rate of Change",
        "Tangents and Normals",
        "Maxima and Minima"
    ]
}`

// RoadmapPrompt asks for a nested JSON curriculum for topic.
func RoadmapPrompt(exam Exam, topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert tutor for the %s.\n", exam.Full)
	fmt.Fprintf(&sb, "Create a comprehensive, hierarchical learning roadmap for the %s topic: '%s'.\n", exam.Short, topic)
	sb.WriteString("The structure must be a nested JSON object. Values can be a list of strings, or a list containing strings and other nested objects.\n\n")
	sb.WriteString("Example for 'Calculus':\n")
	sb.WriteString(roadmapExample)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Create a detailed roadmap for '%s' following this exact nested structure.\n", topic)
	sb.WriteString("Return ONLY the valid JSON object.")
	return sb.String()
}

// NotesPrompt asks for beginner study notes in markdown.
func NotesPrompt(exam Exam, topic string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert tutor for the %s.\n", exam.Full)
	fmt.Fprintf(&sb, "Create a comprehensive set of study notes for a beginner learning the %s topic: '%s'.\n", exam.Short, topic)
	sb.WriteString("Include Key Formulas, Core Concepts, Problem-Solving Tips, and a Summary.\n")
	sb.WriteString("Format the output using clear headings and markdown.")
	return sb.String()
}
