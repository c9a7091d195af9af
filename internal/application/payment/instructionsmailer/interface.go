package instructionsmailer

import "context"

// InstructionsEmail is the "awaiting payment" message sent to the shopper.
type InstructionsEmail struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

type InstructionsMailer interface {
	SendInstructions(ctx context.Context, msg InstructionsEmail) error
}
