package script

import (
	"fmt"
	"strings"
)

// TargetWords is the script length the prompt asks for.
const TargetWords = 300

const promptTemplate = `You are a podcast host. Generate a short, engaging, and informative podcast script about '%s'.
The script should be around %d words.
Structure it with a brief intro, a main body with 2-3 key points, and a concluding outro.
The tone should be conversational and easy to understand.
Just provide the raw text for the host to speak.`

// Prompt returns the generation prompt for topic.
func Prompt(topic string) string {
	return fmt.Sprintf(promptTemplate, topic, TargetWords)
}

// WordCount counts whitespace separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
