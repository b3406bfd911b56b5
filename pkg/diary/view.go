package diary

// View is the rendering capability the controller drives. Implementations
// only draw; they never call back into the controller from these methods.
// All calls happen on the dispatcher's flow.
type View interface {
	// SetContent replaces the editable text. It is not a user edit and must
	// not be reported back as one.
	SetContent(text string)
	SetHeader(text string)
	SetStatus(status SaveStatus, text string)
	RenderEntries(list List)
	ShowOverlay(message string)
	HideOverlay()
}
