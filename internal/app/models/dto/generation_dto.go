package dto

// GenerateTextRequest is a freeform workspace prompt forwarded to the
// configured provider
type GenerateTextRequest struct {
	Prompt string `json:"prompt" binding:"required,min=1,max=8000"`
}

// GenerateTextResponse carries the provider's raw text answer
type GenerateTextResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Text     string `json:"text"`
}

// LessonPlanRequest asks the workspace to draft a structured lesson plan
type LessonPlanRequest struct {
	Topic           string   `json:"topic" binding:"required,min=3,max=300"`
	Grade           string   `json:"grade" binding:"required"`
	DurationMinutes int      `json:"durationMinutes" binding:"required,gt=0,lte=480"`
	Objectives      []string `json:"objectives" binding:"omitempty,dive,min=3"`
}

// SlideOutline is one slide of a generated lesson plan
type SlideOutline struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// ActivityOutline is one classroom activity of a generated lesson plan
type ActivityOutline struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
}

// LessonPlanResponse is the structured plan decoded from the provider's JSON
// output. The provider is asked for this exact shape so no free-text parsing
// happens on our side.
type LessonPlanResponse struct {
	Title           string            `json:"title"`
	Grade           string            `json:"grade"`
	DurationMinutes int               `json:"durationMinutes"`
	Objectives      []string          `json:"objectives"`
	Slides          []SlideOutline    `json:"slides"`
	Activities      []ActivityOutline `json:"activities"`
	Assessment      string            `json:"assessment"`
}
