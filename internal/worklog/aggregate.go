package worklog

import (
	"sort"
)

// SortOccurrences orders occurrences by ascending timestamp, keeping the input order for ties.
func SortOccurrences(occurrences []CommitOccurrence) {
	sort.SliceStable(occurrences, func(leftIndex int, rightIndex int) bool {
		return occurrences[leftIndex].Timestamp.Before(occurrences[rightIndex].Timestamp)
	})
}

// AggregateTickets merges occurrences that share a ticket id.
// The input must already be sorted ascending by timestamp. Tickets are returned
// in order of first appearance and carry the timestamp of their earliest commit.
func AggregateTickets(occurrences []CommitOccurrence) []AggregatedTicket {
	aggregatedTickets := make([]AggregatedTicket, 0, len(occurrences))
	ticketPositions := make(map[string]int, len(occurrences))

	for _, occurrence := range occurrences {
		position, seen := ticketPositions[occurrence.TicketID]
		if seen {
			aggregatedTickets[position].Comments = append(aggregatedTickets[position].Comments, occurrence.Comment)
			continue
		}
		ticketPositions[occurrence.TicketID] = len(aggregatedTickets)
		aggregatedTickets = append(aggregatedTickets, AggregatedTicket{
			TicketID:  occurrence.TicketID,
			Comments:  []string{occurrence.Comment},
			Timestamp: occurrence.Timestamp,
		})
	}

	return aggregatedTickets
}
