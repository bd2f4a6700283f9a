package proto

// Handshake and flow control codes. Exact 4-byte headers, empty bodies.
const (
	// CodeSync is the connect request, host to MCU.
	CodeSync = "SYNC"
	// CodeAckn is the connect acknowledge, MCU to host.
	CodeAckn = "ACKN"
	// CodeSyna is the connect confirm, host to MCU.
	CodeSyna = "SYNA"
	// CodeClearToSend is the pacing token. The MCU emits one whenever it
	// is ready to receive the next frame; it is the sole flow control
	// mechanism.
	CodeClearToSend = "CTS\x00"
	// CodeDisconnect is the disconnect request, host to MCU.
	CodeDisconnect = "DISC"
)

// Application codes understood by the calendar firmware. Bodies are
// `;`-delimited field strings.
const (
	// CodeSetDateTime sets the MCU clock, body "yy;MM;dd;HH;mm;ss".
	CodeSetDateTime = "STDT"
	// CodeGetDateTime reads the MCU clock; the reply body uses the
	// CodeSetDateTime format.
	CodeGetDateTime = "GTDT"
	// CodeAddEvent uploads one event, body "start;end" where each
	// timestamp is "yy;MM;dd;HH;mm;ss".
	CodeAddEvent = "AEVT"
	// CodeSchedule commits the uploaded events, empty body.
	CodeSchedule = "SCAL"
	// CodeEcho is a diagnostic echo with an arbitrary body.
	CodeEcho = "ECHO"
	// CodeLed toggles the indicator.
	CodeLed = "LED\x00"
)

// Message is one decoded frame: a command code and its payload.
type Message struct {
	Command string
	Payload string
}
