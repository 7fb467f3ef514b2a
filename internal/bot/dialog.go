package bot

import (
	"fmt"
	"strings"
)

// stage is the chat's current prompt state. A chat with no entry in the
// conversations map is idle.
type stage int

const (
	stageNone stage = iota
	stageExpense
	stageEvent
	stageOrganization
)

type actionKind int

const (
	actionNone actionKind = iota
	actionRecordExpense
	// Event and organization creation are accepted but not persisted;
	// the document schema has their slots, no flow writes them yet.
	actionCreateEvent
	actionCreateOrganization
)

type action struct {
	kind     actionKind
	amount   string
	category string
	name     string
	date     string
}

// transition is the outcome of feeding one message to an armed prompt.
// An invalid message keeps the same stage armed so the user can retry.
type transition struct {
	next   stage
	reply  string
	action action
}

const (
	replyExpensePrompt      = "Please enter the expense amount and category (e.g., \"100 Food\"):"
	replyExpenseFormat      = "Invalid format. Please use \"amount category\"."
	replyExpenseRecorded    = "Expense recorded successfully!"
	replyEventPrompt        = "Please enter the name of the event and the date (e.g., \"Birthday 2023-12-25\"):"
	replyEventFormat        = "Invalid format. Please use \"event_name event_date\"."
	replyOrganizationPrompt = "Please enter the name of the organization:"
	replySelectOrganization = "Please select an organization from the list."
	replyMenuFallback       = "Please choose an option from the menu."
	replyWelcome            = "Welcome to the Expense Tracker! Choose an option:"
	replyCancelled          = "Input cancelled. Choose an option from the menu."
	replyNotRegistered      = "I don't know you yet. Send /start to register first."
	replyStoreFailure       = "Something went wrong while saving. Please try again later."
)

// advance maps an armed prompt stage and the incoming text to the next
// transition. It is pure: side effects are described by the returned
// action and performed by the caller.
func advance(current stage, text string) transition {
	trimmed := strings.TrimSpace(text)

	switch current {
	case stageExpense:
		parts := strings.Fields(trimmed)
		if len(parts) != 2 {
			return transition{next: stageExpense, reply: replyExpenseFormat}
		}
		return transition{
			next:   stageNone,
			action: action{kind: actionRecordExpense, amount: parts[0], category: parts[1]},
		}
	case stageEvent:
		parts := strings.Fields(trimmed)
		if len(parts) != 2 {
			return transition{next: stageEvent, reply: replyEventFormat}
		}
		return transition{
			next:   stageNone,
			reply:  fmt.Sprintf("Event %q on %s created successfully!", parts[0], parts[1]),
			action: action{kind: actionCreateEvent, name: parts[0], date: parts[1]},
		}
	case stageOrganization:
		if trimmed == "" {
			return transition{next: stageOrganization, reply: replyOrganizationPrompt}
		}
		return transition{
			next:   stageNone,
			reply:  fmt.Sprintf("Organization %q created successfully!", trimmed),
			action: action{kind: actionCreateOrganization, name: trimmed},
		}
	default:
		return transition{next: stageNone, reply: replyMenuFallback}
	}
}
