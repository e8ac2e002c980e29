package auth

// State is where one login attempt ended up.
type State int

const (
	// AwaitingInput is the initial state: an empty form, nothing submitted.
	AwaitingInput State = iota
	// NoSubmission means the form was posted with both fields empty. It is a
	// prompt, not a failure.
	NoSubmission
	// Invalid means the username is unknown or the password does not match.
	Invalid
	// Authenticated means a Session was produced.
	Authenticated
	// Unavailable means the user directory could not be read.
	Unavailable
)

const (
	MessagePrompt      = "Ingrese sus credenciales"
	MessageInvalid     = "Usuario o contraseña incorrectos"
	MessageUnavailable = "El servicio no está disponible, intente más tarde"
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case NoSubmission:
		return "no_submission"
	case Invalid:
		return "invalid"
	case Authenticated:
		return "authenticated"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Message is the text the login form shows for the state.
func (s State) Message() string {
	switch s {
	case NoSubmission:
		return MessagePrompt
	case Invalid:
		return MessageInvalid
	case Unavailable:
		return MessageUnavailable
	}
	return ""
}
