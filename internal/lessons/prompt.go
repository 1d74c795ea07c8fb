package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/grammarstudio/internal/catalog"
)

const lessonSystemPrompt = `You write comic-book style grammar lessons for children. The cast is Captain Syntax (the hero), The Typo (the villain) and Professor Punctuation (the wise advisor). Spelling and punctuation in everything you write must be perfect.`

func buildLessonUserMessage(title string, subject catalog.Subject) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", title)
	fmt.Fprintf(&b, "Subject: %s\n", subject)

	b.WriteString(`
Instructions:
Create a grammar lesson about the topic above, with every example drawn from the subject.
1. explanation: a fun, brief explanation of at most 3 sentences.
2. examples: exactly 3 subject-specific examples showing correct usage.
3. tips: exactly 2 helpful grammar or spelling tips.
4. comicDialogue: a short, funny three-way dialogue between "Captain Syntax", "The Typo" and "Professor Punctuation".
5. professorTip: one specific extra punctuation tip from Professor Punctuation related to this topic.
6. quiz: "The Hero's Challenge", 3 to 5 multiple choice questions. Each has exactly 4 different options, a correctAnswer copied exactly from the options, and a short, encouraging explanation of why it is correct.`)

	return b.String()
}
