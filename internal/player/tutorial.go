package player

// TutorialSteps is the number of tutorial pages.
const TutorialSteps = 8

// Tutorial is the persisted tutorial progress.
type Tutorial struct {
	CurrentStep int  `json:"currentStep"`
	Completed   bool `json:"completed"`
}

// Next moves to the following step, completing the tutorial after the last.
func (t *Tutorial) Next() {
	if t.Completed {
		return
	}
	t.CurrentStep++
	if t.CurrentStep >= TutorialSteps {
		t.CurrentStep = TutorialSteps - 1
		t.Completed = true
	}
}

// Skip marks the tutorial completed.
func (t *Tutorial) Skip() {
	t.Completed = true
}

// Restart returns to the first step.
func (t *Tutorial) Restart() {
	*t = Tutorial{}
}
