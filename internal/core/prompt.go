package core

import "fmt"

// chatInstruction frames every augmented prompt. It rides inside the prompt
// itself rather than as a model-level system instruction so the retrieved
// guide and the instruction travel together as one turn.
const chatInstruction = "You are a helpful and expert network troubleshooting assistant. " +
	"Use the following information to guide the user and provide a detailed, step-by-step solution. " +
	"Do not invent information beyond the context or your general knowledge."

// ComposePrompt builds the augmented prompt sent to the model: the role
// instruction, a labeled context block with the retrieved guide, then the
// user's literal request. Pure function; the result is never stored.
func ComposePrompt(instruction, retrieved, userText string) string {
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nUser's request:\n%s", instruction, retrieved, userText)
}
