package terminal

import (
	"strings"
)

type captureState int

const (
	stateAwaitingPrompt captureState = iota
	stateSent
	stateValidating
	stateDone
)

func (s captureState) String() string {
	switch s {
	case stateAwaitingPrompt:
		return "awaiting-prompt"
	case stateSent:
		return "sent"
	case stateValidating:
		return "validating"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// captureAction tells the output reader what to do with a chunk.
type captureAction int

const (
	forwardRaw captureAction = iota
	forwardNotice
	skipChunk
)

// captureDecision is the result of observing one output chunk.
type captureDecision struct {
	action captureAction
	// notice replaces the chunk on screen when action is forwardNotice.
	notice []byte
	// inject holds bytes to queue for the child, at most once per session.
	inject []byte
}

// passwordCapture decides when to inject a remembered password and how to
// treat the output that follows it. It is owned by the output reader.
type passwordCapture struct {
	state     captureState
	candidate string
	hasCand   bool
	outcome   CaptureOutcome
	markers   Markers
}

func newPasswordCapture(candidate *string, markers Markers) *passwordCapture {
	c := &passwordCapture{
		state:   stateDone,
		outcome: OutcomeNoCandidate,
		markers: markers.withDefaults(),
	}
	if candidate != nil {
		c.state = stateAwaitingPrompt
		c.candidate = *candidate
		c.hasCand = true
		c.outcome = OutcomePending
	}
	return c
}

// Observe runs one transition against the decoded text of an output chunk.
func (c *passwordCapture) Observe(text string) captureDecision {
	switch c.state {
	case stateAwaitingPrompt:
		if c.hasCand && strings.Contains(text, c.markers.Prompt) {
			inject := make([]byte, 0, len(c.candidate)+len(enterSequence))
			inject = append(inject, c.candidate...)
			inject = append(inject, enterSequence...)
			c.candidate = ""
			c.hasCand = false
			c.state = stateSent
			c.outcome = OutcomeInjected
			return captureDecision{action: forwardRaw, inject: inject}
		}
		return captureDecision{action: forwardRaw}

	case stateSent:
		if strings.TrimSpace(text) == "" {
			return captureDecision{action: skipChunk}
		}
		c.state = stateValidating
		decision := c.validate(text)
		c.state = stateDone
		return decision

	default:
		return captureDecision{action: forwardRaw}
	}
}

// validate inspects the first meaningful chunk after an injection.
func (c *passwordCapture) validate(text string) captureDecision {
	idx := strings.Index(text, c.markers.Denied)
	if idx < 0 {
		c.outcome = OutcomeAccepted
		return captureDecision{action: forwardRaw}
	}

	c.outcome = OutcomeRejected
	notice := []byte(c.markers.OutdatedNotice)
	// Keep whatever follows the denial line, typically the next prompt.
	if nl := strings.IndexByte(text[idx:], '\n'); nl >= 0 {
		notice = append(notice, text[idx+nl+1:]...)
	}
	return captureDecision{action: forwardNotice, notice: notice}
}

// Outcome reports what happened to the candidate so far.
func (c *passwordCapture) Outcome() CaptureOutcome {
	return c.outcome
}

// ExtractPassword recovers a typed password from a session transcript.
//
// It takes the line after the last prompt marker, up to the next line break,
// and returns it only if a login banner follows that line. A missing marker,
// missing line break, missing banner, or empty line yields "".
func ExtractPassword(transcript string, markers Markers, filter TranscriptFilter) string {
	markers = markers.withDefaults()
	if filter != nil {
		transcript = filter.Filter(transcript)
	}

	start := strings.LastIndex(transcript, markers.Prompt)
	if start < 0 {
		return ""
	}
	rest := transcript[start+len(markers.Prompt):]

	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		return ""
	}
	if !strings.Contains(rest[end:], markers.LoginBanner) {
		return ""
	}

	return strings.TrimSpace(applyLineEdits(rest[:end]))
}
