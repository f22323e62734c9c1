// Package conversation drives the multi-step add and edit flows. Each chat has
// at most one Session; every event loads it, applies one transition and stores
// it back under a per-chat lock.
package conversation

import "github.com/m3rciful/wishbot/internal/models"

// State tags where a chat is inside a flow.
type State string

const (
	Idle State = ""

	AwaitingTitle       State = "add.title"
	AwaitingDescription State = "add.description"
	AwaitingURL         State = "add.url"
	AwaitingPrice       State = "add.price"
	AwaitingImage       State = "add.image"

	EditChoice      State = "edit.choice"
	EditTitle       State = "edit.title"
	EditDescription State = "edit.description"
	EditURL         State = "edit.url"
	EditPrice       State = "edit.price"
	EditImage       State = "edit.image"
)

// Adding reports whether s belongs to the add flow.
func (s State) Adding() bool {
	switch s {
	case AwaitingTitle, AwaitingDescription, AwaitingURL, AwaitingPrice, AwaitingImage:
		return true
	}
	return false
}

// Editing reports whether s belongs to the edit flow.
func (s State) Editing() bool {
	switch s {
	case EditChoice, EditTitle, EditDescription, EditURL, EditPrice, EditImage:
		return true
	}
	return false
}

// AddSteps is the number of steps in the add flow.
const AddSteps = 5

// StepNumber returns the 1-based position of an add state, or 0.
func (s State) StepNumber() int {
	switch s {
	case AwaitingTitle:
		return 1
	case AwaitingDescription:
		return 2
	case AwaitingURL:
		return 3
	case AwaitingPrice:
		return 4
	case AwaitingImage:
		return 5
	}
	return 0
}

// Field returns the wish field collected in s.
func (s State) Field() (models.Field, bool) {
	switch s {
	case AwaitingTitle, EditTitle:
		return models.FieldTitle, true
	case AwaitingDescription, EditDescription:
		return models.FieldDescription, true
	case AwaitingURL, EditURL:
		return models.FieldURL, true
	case AwaitingPrice, EditPrice:
		return models.FieldPrice, true
	case AwaitingImage, EditImage:
		return models.FieldImage, true
	}
	return "", false
}

func editStateFor(f models.Field) State {
	switch f {
	case models.FieldTitle:
		return EditTitle
	case models.FieldDescription:
		return EditDescription
	case models.FieldURL:
		return EditURL
	case models.FieldPrice:
		return EditPrice
	case models.FieldImage:
		return EditImage
	}
	return Idle
}

func addStateFor(f models.Field) State {
	switch f {
	case models.FieldTitle:
		return AwaitingTitle
	case models.FieldURL:
		return AwaitingURL
	case models.FieldDescription:
		return AwaitingDescription
	case models.FieldPrice:
		return AwaitingPrice
	case models.FieldImage:
		return AwaitingImage
	}
	return AwaitingTitle
}

// Draft accumulates add-flow fields. Empty strings mean absent.
type Draft struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Price       string `json:"price,omitempty"`
	ImageFileID string `json:"image_file_id,omitempty"`
}

func (d Draft) toNewWish() models.NewWish {
	return models.NewWish{
		Title:       d.Title,
		Description: models.Ptr(d.Description),
		URL:         models.Ptr(d.URL),
		Price:       models.Ptr(d.Price),
		ImageFileID: models.Ptr(d.ImageFileID),
	}
}

// Session is the stored per-chat flow state.
type Session struct {
	State  State `json:"state"`
	Draft  Draft `json:"draft"`
	WishID int64 `json:"wish_id,omitempty"`
}

// Event is one inbound user input for a chat.
type Event struct {
	ChatID int64
	UserID int64
	Text   string
	// PhotoFileID is set when the message carries a photo.
	PhotoFileID string
}

// Step tells the presentation layer what to show after a transition.
type Step string

const (
	// StepIdle means no flow is active for the chat.
	StepIdle Step = "idle"
	// StepPrompt asks for the value of Outcome.State.
	StepPrompt Step = "prompt"
	// StepInvalid rejects the input with Outcome.Err and asks again for Outcome.State.
	StepInvalid Step = "invalid"
	// StepPhotoRequired re-prompts an image state after non-photo input.
	StepPhotoRequired Step = "photo_required"
	// StepEditMenu shows the field choice for Outcome.Wish.
	StepEditMenu Step = "edit_menu"
	StepAdded    Step = "added"
	StepUpdated  Step = "updated"
	StepCanceled Step = "canceled"
	StepQuota    Step = "quota"
	StepNotFound Step = "not_found"
	// StepFailed ends the flow after an unexpected error in Outcome.Err.
	StepFailed Step = "failed"
)

// Outcome is the result of one engine call.
type Outcome struct {
	Step Step
	// From is the state before the transition, State the state after it.
	From  State
	State State
	Field models.Field
	Wish  *models.Wish
	Err   error
}
