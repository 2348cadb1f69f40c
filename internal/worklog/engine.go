package worklog

import (
	"strings"
	"time"
)

const (
	// RequiredDailyDuration is the time every business day must account for.
	RequiredDailyDuration = 8 * time.Hour
	// DailyStandupDuration is the fixed standup slot logged on normal days.
	DailyStandupDuration = 30 * time.Minute
	// RegularSlotDuration is the fixed ticket slot logged after the standup.
	RegularSlotDuration = 7*time.Hour + 30*time.Minute
	// PtoDuration is the fixed duration of a vacation day.
	PtoDuration = 8 * time.Hour

	standupStartHourConstant        = 15
	ptoStartHourConstant            = 9
	autoGeneratedPrefixConstant     = "(Auto generated)"
	standupCommentConstant          = autoGeneratedPrefixConstant + " Daily standup"
	ptoCommentConstant              = autoGeneratedPrefixConstant + " PTO"
	regularCommentSeparatorConstant = "\n"
	regularCommentHeaderConstant    = autoGeneratedPrefixConstant + " " + regularCommentSeparatorConstant
)

// EngineOptions configures time zones used when anchoring entries.
type EngineOptions struct {
	// Location is the local display zone. Defaults to time.Local.
	Location *time.Location
	// ReferenceLocation anchors the standup start. Defaults to UTC.
	ReferenceLocation *time.Location
}

// AllocationInput bundles everything the engine consumes for one month.
type AllocationInput struct {
	BusinessDays []time.Time
	Tickets      []AggregatedTicket
	VacationDays DateSet
	SkipDays     DateSet
}

// AllocationResult captures the synthesized entries and the final budget state.
type AllocationResult struct {
	Entries         []Entry
	Tickets         []AggregatedTicket
	TotalRequired   time.Duration
	TotalLogged     time.Duration
	PerTicketBudget time.Duration
}

// Engine apportions the monthly time budget across calendar days.
type Engine struct {
	location          *time.Location
	referenceLocation *time.Location
}

// NewEngine constructs an Engine, applying zone defaults.
func NewEngine(options EngineOptions) *Engine {
	location := options.Location
	if location == nil {
		location = time.Local
	}
	referenceLocation := options.ReferenceLocation
	if referenceLocation == nil {
		referenceLocation = time.UTC
	}
	return &Engine{location: location, referenceLocation: referenceLocation}
}

// Allocate walks the business days in order and emits worklog entries.
// Skip days take precedence over vacation days when a date is in both sets.
func (engine *Engine) Allocate(input AllocationInput) AllocationResult {
	totalRequired := time.Duration(len(input.BusinessDays)) * RequiredDailyDuration

	tickets := make([]AggregatedTicket, len(input.Tickets))
	var perTicketBudget time.Duration
	if len(tickets) > 0 {
		perTicketBudget = totalRequired / time.Duration(len(tickets))
	}
	for ticketIndex, ticket := range input.Tickets {
		ticket.Comments = append([]string(nil), ticket.Comments...)
		ticket.RemainingBudget = perTicketBudget
		tickets[ticketIndex] = ticket
	}

	entries := make([]Entry, 0, len(input.BusinessDays)*2)
	var totalLogged time.Duration
	cursor := 0

	for _, businessDay := range input.BusinessDays {
		if input.SkipDays.Contains(businessDay) {
			entries = append(entries, Entry{
				Kind:    EntryKindSkipped,
				Started: engine.localMidnight(businessDay),
			})
			continue
		}

		if input.VacationDays.Contains(businessDay) {
			entries = append(entries, Entry{
				Kind:      EntryKindPto,
				Comment:   ptoCommentConstant,
				Started:   engine.localClock(businessDay, ptoStartHourConstant),
				TimeSpent: PtoDuration,
			})
			continue
		}

		standupStart := engine.referenceClock(businessDay, standupStartHourConstant)
		entries = append(entries, Entry{
			Kind:      EntryKindDailyStandup,
			Comment:   standupCommentConstant,
			Started:   standupStart,
			TimeSpent: DailyStandupDuration,
		})
		totalLogged += DailyStandupDuration

		if totalLogged >= totalRequired {
			continue
		}

		cursor = nextAvailableTicket(tickets, cursor)
		if cursor >= len(tickets) {
			continue
		}

		selectedTicket := &tickets[cursor]
		entries = append(entries, Entry{
			Kind:      EntryKindRegular,
			TicketID:  selectedTicket.TicketID,
			Comment:   regularComment(selectedTicket.Comments),
			Started:   standupStart.Add(DailyStandupDuration),
			TimeSpent: RegularSlotDuration,
		})
		selectedTicket.RemainingBudget -= RegularSlotDuration
		totalLogged += RegularSlotDuration
	}

	return AllocationResult{
		Entries:         entries,
		Tickets:         tickets,
		TotalRequired:   totalRequired,
		TotalLogged:     totalLogged,
		PerTicketBudget: perTicketBudget,
	}
}

// nextAvailableTicket advances from cursor past tickets whose budget is exhausted.
// It returns len(tickets) when none remain.
func nextAvailableTicket(tickets []AggregatedTicket, cursor int) int {
	for cursor < len(tickets) && tickets[cursor].RemainingBudget <= 0 {
		cursor++
	}
	return cursor
}

func regularComment(comments []string) string {
	return regularCommentHeaderConstant + strings.Join(comments, regularCommentSeparatorConstant)
}

func (engine *Engine) localMidnight(day time.Time) time.Time {
	return engine.localClock(day, 0)
}

func (engine *Engine) localClock(day time.Time, hour int) time.Time {
	year, month, dayOfMonth := day.Date()
	return time.Date(year, month, dayOfMonth, hour, 0, 0, 0, engine.location)
}

// referenceClock builds the instant in the reference zone and presents it in the local zone,
// so the same instant is produced regardless of where the tool runs.
func (engine *Engine) referenceClock(day time.Time, hour int) time.Time {
	year, month, dayOfMonth := day.Date()
	return time.Date(year, month, dayOfMonth, hour, 0, 0, 0, engine.referenceLocation).In(engine.location)
}
