package services

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmation prompts.
const (
	PromptDeleteAccount = "Are you sure you want to delete your account? This action cannot be undone."
	PromptRemoveImage   = "Are you sure you want to remove this item?"
	PromptClearGallery  = "Are you sure you want to delete all items?"
)

func confirmed(c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}
